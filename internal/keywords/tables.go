// Package keywords scores complaint text against the category and urgency
// trigger dictionaries.
package keywords

import "github.com/civicgrid/triage/internal/domain"

// CategoryKeywords maps each category to its trigger words. Matching is
// plain substring containment, so word variants are listed explicitly.
var CategoryKeywords = map[domain.Category][]string{
	domain.CategoryInfrastructure: {
		"road", "pothole", "potholes", "bridge", "traffic", "signal", "footpath", "street",
		"pavement", "highway", "divider", "barrier", "manhole", "cover", "crossing", "zebra",
		"lane", "sidewalk", "pathway", "guardrail", "footbridge", "stairs", "bench", "shelter",
		"sign", "board", "marking", "speed", "breaker", "flyover", "subway",
	},
	domain.CategorySanitation: {
		"garbage", "waste", "trash", "dustbin", "sewage", "drain", "drainage", "toilet",
		"sanitation", "dirty", "smell", "smells", "smelly", "stink", "overflow", "dump", "dumping",
		"litter", "compost", "septic", "gutter", "clogged", "blocked", "plastic",
		"pollution", "hygiene", "unhygienic", "cleaning", "sweeper", "bins", "collected",
	},
	domain.CategoryUtilities: {
		"water", "electricity", "power", "current", "supply", "outage", "cut", "broadband",
		"internet", "wifi", "cable", "connection", "meter", "transformer", "pole", "wire",
		"pipeline", "tanker", "motor", "pump", "voltage", "fluctuation", "fiber", "network",
		"billing", "bill", "pressure", "leakage", "contaminated", "streetlight", "light",
	},
	domain.CategorySafety: {
		"unsafe", "danger", "dangerous", "threat", "threatening", "harassment", "assault",
		"attack", "robbery", "theft", "stealing", "violence", "fight", "fighting", "crime",
		"criminal", "stalking", "molest", "rape", "murder", "kidnap", "extortion", "arson",
		"fire", "accident", "accidents", "injury", "hurt", "bleeding", "weapon", "gun", "knife",
		"scared", "fear", "police", "security", "patrol",
	},
	domain.CategoryHealth: {
		"hospital", "doctor", "medicine", "medical", "health", "disease", "illness", "sick",
		"patient", "treatment", "clinic", "vaccine", "vaccination", "epidemic", "outbreak",
		"fever", "dengue", "malaria", "tuberculosis", "covid", "infection", "virus", "bacteria",
		"ambulance", "emergency", "blood", "oxygen", "bed", "icu", "surgery", "negligent",
		"contaminated", "poisoning", "mental", "suffering",
	},
	domain.CategoryAdministrative: {
		"certificate", "document", "application", "pending", "delay", "delayed", "approval",
		"license", "permit", "registration", "verification", "aadhaar", "passport", "voter",
		"ration", "card", "pension", "tax", "office", "staff", "officer", "corruption", "bribe",
		"rti", "grievance", "complaint", "service", "portal", "online", "submission", "refund",
		"processing", "rejection", "mutation", "property", "land", "record",
	},
}

// HighUrgencyKeywords trigger the strong urgency tier.
var HighUrgencyKeywords = []string{
	"death", "die", "dying", "dead", "kill", "murder", "suicide",
	"injured", "bleeding", "unconscious", "critical",
	"fire", "explosion", "bomb", "weapon", "gun", "knife",
	"rape", "kidnap", "assault", "attack", "robbery", "violence",
	"urgent", "urgently", "immediately", "asap", "emergency",
	"threat", "threatening", "help",
}

// MediumUrgencyKeywords trigger the moderate urgency tier.
var MediumUrgencyKeywords = []string{
	"unsafe", "risk", "hazard", "broken", "damaged", "not working",
	"malfunction", "overflow", "blocked", "smell", "smells",
	"negligent", "suffering", "problem", "terrible",
}
