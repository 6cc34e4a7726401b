package gem

func sampleGems() []Gem {
	return []Gem{
		{
			ID:         "al-qudra-lakes",
			NameEN:     "Al Qudra Lakes",
			NameAR:     "بحيرات القدرة",
			Emirate:    Dubai,
			AreaEN:     "Saih Al Salam",
			AreaAR:     "سيح السلام",
			Budget:     BudgetFree,
			Photogenic: true,
			Category:   "nature",
			Coords:     Coords{Lat: 24.84, Lng: 55.37},
			ImageURLs:  []string{"/gems/al-qudra-1.jpg"},
			Tags:       []string{"sunset", "desert"},
		},
		{
			ID:       "jebel-jais",
			NameEN:   "Jebel Jais",
			NameAR:   "جبل جيس",
			Emirate:  RasAlKhaimah,
			Budget:   BudgetMid,
			Category: "mountain",
			Tags:     []string{"hiking"},
		},
	}
}
