package locale

// Display strings for the closed emirate and budget sets, keyed by their catalog value.
var (
	emirateLabels = map[Locale]map[string]string{
		English: {
			"Dubai":          "Dubai",
			"Abu Dhabi":      "Abu Dhabi",
			"Sharjah":        "Sharjah",
			"Ajman":          "Ajman",
			"Fujairah":       "Fujairah",
			"Ras Al Khaimah": "Ras Al Khaimah",
			"Umm Al Quwain":  "Umm Al Quwain",
		},
		Arabic: {
			"Dubai":          "دبي",
			"Abu Dhabi":      "أبوظبي",
			"Sharjah":        "الشارقة",
			"Ajman":          "عجمان",
			"Fujairah":       "الفجيرة",
			"Ras Al Khaimah": "رأس الخيمة",
			"Umm Al Quwain":  "أم القيوين",
		},
	}

	budgetLabels = map[Locale]map[string]string{
		English: {"free": "Free", "low": "Low cost", "mid": "Mid range"},
		Arabic:  {"free": "مجاني", "low": "تكلفة منخفضة", "mid": "تكلفة متوسطة"},
	}
)

// EmirateLabel returns the localized emirate name, or the raw value when unknown.
func EmirateLabel(l Locale, emirate string) string {
	if v, ok := emirateLabels[l][emirate]; ok {
		return v
	}
	return emirate
}

// BudgetLabel returns the localized budget tier name, or the raw value when unknown.
func BudgetLabel(l Locale, budget string) string {
	if v, ok := budgetLabels[l][budget]; ok {
		return v
	}
	return budget
}
