package consent

import "fmt"

func consentTab(label string, content TabContent) Tab {
	return Tab{ID: "consent", Label: label, Type: TabConsent, Content: content}
}

func legitimateTab(label string, content TabContent) Tab {
	return Tab{ID: "legitimate", Label: label, Type: TabLegitimateInterest, Content: content}
}

func accept(text string, style ButtonStyle) Button {
	return Button{Text: text, Style: style, AcceptsAll: true}
}

func save(text string, style ButtonStyle) Button {
	return Button{Text: text, Style: style}
}

func boolPtr(v bool) *bool { return &v }

func generatedIDs(from, to int) []string {
	ids := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		ids = append(ids, fmt.Sprintf("generated_%d", i))
	}
	return ids
}

// DefaultLevels returns the twenty built-in levels, ordered by escalating
// dark patterns.
func DefaultLevels() []LevelConfig {
	return []LevelConfig{
		{
			ID:          1,
			Title:       "Welcome! We value your privacy",
			Description: "Choose your privacy preferences below. We make it easy!",
			Tabs:        []Tab{consentTab("Consent", ContentPurposes)},
			Buttons: []Button{
				{Text: "Reject All", Style: StyleSecondary, AlwaysPass: true},
				save("Accept Selected", StylePrimary),
			},
			DisplayMode:    DisplaySimple,
			DefaultChecked: false,
			PurposeFilter:  []string{"preferences", "statistics", "marketing"},
			CompanyFilter:  []string{"intersussy", "goofy_analytics", "social_media"},
			GridLayout:     GridSingle,
		},
		{
			ID:          2,
			Title:       "Cookie Preferences",
			Description: "We respect your choices. Please select your preferences below.",
			Tabs:        []Tab{consentTab("Consent", ContentPurposes)},
			Buttons: []Button{
				accept("Accept All Cookies", StylePrimary),
				save("Accept Selected", StyleSecondary),
			},
			DisplayMode:    DisplaySimple,
			DefaultChecked: true,
			PurposeFilter:  []string{"preferences", "statistics", "marketing", "performance"},
			GridLayout:     GridDouble,
		},
		{
			ID:          3,
			Title:       "Enhanced Privacy Controls",
			Description: "Granular control over your data. Each company is listed below.",
			Tabs:        []Tab{consentTab("Consent", ContentCompaniesDetailed)},
			Buttons: []Button{
				accept("Accept All", StylePrimary),
				save("Accept Selected", StyleSecondary),
			},
			DisplayMode:    DisplayPerCompany,
			DefaultChecked: true,
			CompanyFilter:  []string{"intersussy", "goofy_analytics", "goofy_advertising", "social_media", "video_service"},
		},
		{
			ID:          4,
			Title:       "Cookie & Privacy Settings",
			Description: "We value your privacy. Please review both consent and legitimate interest preferences.",
			Tabs: []Tab{
				consentTab("Consent", ContentPurposes),
				legitimateTab("Legitimate Interest", ContentPurposes),
			},
			Buttons: []Button{
				accept("Accept All", StyleSecondary),
				save("Save Preferences", StylePrimary),
			},
			DisplayMode:                      DisplayDetailed,
			DefaultChecked:                   false,
			LegitimateInterestDefaultChecked: boolPtr(true),
			PurposeFilter:                    []string{"preferences", "statistics", "marketing", "performance", "security"},
			GridLayout:                       GridDouble,
		},
		{
			ID:          5,
			Title:       "Comprehensive Privacy Dashboard",
			Description: "Complete control over all tracking purposes across consent and legitimate interest.",
			Tabs: []Tab{
				consentTab("Consent", ContentPurposes),
				legitimateTab("Legitimate Interest", ContentPurposes),
			},
			Buttons: []Button{
				accept("Accept All", StyleSecondary),
				save("Save Choices", StylePrimary),
			},
			DisplayMode:                      DisplayDetailed,
			DefaultChecked:                   true,
			LegitimateInterestDefaultChecked: boolPtr(true),
			GridLayout:                       GridTriple,
		},
		{
			ID:          6,
			Title:       "Partner Network Privacy Settings",
			Description: "Our trusted partners need your consent. Review each company's data usage below.",
			Tabs: []Tab{
				consentTab("Consent", ContentCompaniesDetailed),
				legitimateTab("Legitimate Interest", ContentCompaniesDetailed),
			},
			Buttons: []Button{
				accept("Accept All Partners", StylePrimary),
				save("Customize Settings", StyleSecondary),
			},
			DisplayMode:                      DisplayPerCompany,
			DefaultChecked:                   false,
			LegitimateInterestDefaultChecked: boolPtr(true),
			CompanyFilter:                    []string{"goofy_analytics", "ian", "hjeatmap", "ad_exchange", "payment_processor", "content_delivery"},
		},
		{
			ID:          7,
			Title:       "Quick Privacy Setup",
			Description: "Almost done! Just confirm your privacy choices.",
			Tabs:        []Tab{consentTab("Consent", ContentPurposes)},
			Buttons: []Button{
				accept("Continue with Recommended Settings", StylePrimary),
				save("Customize", StyleSecondary),
			},
			DisplayMode:    DisplaySimple,
			DefaultChecked: true,
			PurposeFilter:  []string{"preferences", "statistics", "marketing", "performance", "security"},
			GridLayout:     GridTriple,
		},
		{
			ID:          8,
			Title:       "Essential Services Configuration",
			Description: "These partners provide essential functionality. Please review carefully.",
			Tabs:        []Tab{consentTab("Consent", ContentCompaniesDetailed)},
			Buttons: []Button{
				save("Save and Continue", StylePrimary),
				accept("Accept Recommended", StyleSecondary),
			},
			DisplayMode:    DisplayPerCompany,
			DefaultChecked: true,
			CompanyFilter:  []string{"fraud_detection", "payment_processor", "content_delivery", "chat_widget", "video_service", "hjeatmap", "ian", "ad_exchange"},
			RequireScroll:  true,
			MaxHeight:      "400px",
		},
		{
			ID:          9,
			Title:       "Privacy Experience Optimization",
			Description: "Help us improve your experience by sharing preferences below.",
			Tabs: []Tab{
				consentTab("Essential", ContentPurposes),
				legitimateTab("Experience Enhancement", ContentPurposes),
			},
			Buttons: []Button{
				save("Decline Enhanced Experience", StyleSecondary),
				accept("Enable Full Experience", StylePrimary),
			},
			DisplayMode:                      DisplayDetailed,
			DefaultChecked:                   false,
			LegitimateInterestDefaultChecked: boolPtr(true),
			GridLayout:                       GridDouble,
			ConfusingLanguage:                true,
		},
		{
			ID:          10,
			Title:       "Partnership Network Consent",
			Description: "Our partners help us provide you with personalized content and services.",
			Tabs:        []Tab{consentTab("Consent", ContentCompaniesDetailed)},
			Buttons: []Button{
				accept("Accept Essential Partners", StylePrimary),
				save("Review Each Partner", StyleSecondary),
			},
			DisplayMode:    DisplayPerCompany,
			DefaultChecked: true,
			CompanyFilter: append(
				[]string{"intersussy", "goofy_analytics", "goofy_advertising", "social_media", "video_service"},
				generatedIDs(1, 15)...,
			),
			RequireScroll: true,
			MaxHeight:     "350px",
		},
		{
			ID:          11,
			Title:       "Data Processing Preferences",
			Description: "Configure how your personal information is processed by our systems and partners.",
			Tabs: []Tab{
				consentTab("Data Consent", ContentPurposes),
				legitimateTab("Legitimate Processing", ContentPurposes),
			},
			Buttons: []Button{
				save("Opt out of data enhancement", StyleSecondary),
				accept("Enable personalized experience", StylePrimary),
			},
			DisplayMode:                      DisplayDetailed,
			DefaultChecked:                   true,
			LegitimateInterestDefaultChecked: boolPtr(true),
			PurposeFilter:                    []string{"preferences", "statistics", "marketing", "performance", "security", "profiling"},
			GridLayout:                       GridTriple,
			ConfusingLanguage:                true,
		},
		{
			ID:          12,
			Title:       "Advanced Data Sharing Configuration",
			Description: "Comprehensive settings for data sharing with our extensive partner ecosystem.",
			Tabs: []Tab{
				consentTab("Explicit Consent", ContentPurposes),
				legitimateTab("Legitimate Interests", ContentPurposes),
			},
			Buttons: []Button{
				save("Disable advanced features", StyleSecondary),
				accept("Enable all features", StylePrimary),
			},
			DisplayMode:                      DisplayDetailed,
			DefaultChecked:                   false,
			LegitimateInterestDefaultChecked: boolPtr(true),
			PurposeFilter:                    []string{"preferences", "statistics", "marketing", "performance", "security", "profiling", "location_tracking", "biometric_data"},
			GridLayout:                       GridTriple,
			ConfusingLanguage:                true,
		},
		{
			ID:          13,
			Title:       "Expanded Partner Network Settings",
			Description: "Our growing network of 25+ partners helps deliver enhanced services tailored to you.",
			Tabs: []Tab{
				consentTab("Direct Consent", ContentCompaniesDetailed),
				legitimateTab("Business Interests", ContentCompaniesDetailed),
			},
			Buttons: []Button{
				save("Object to partner data sharing", StyleSecondary),
				accept("Allow partner optimization", StylePrimary),
			},
			DisplayMode:                      DisplayPerCompany,
			DefaultChecked:                   true,
			LegitimateInterestDefaultChecked: boolPtr(true),
			RequireScroll:                    true,
			MaxHeight:                        "400px",
			ConfusingLanguage:                true,
		},
		{
			ID:          14,
			Title:       "Intelligent Personalization System",
			Description: "Our AI systems analyze your preferences to provide superior personalized experiences across all touchpoints.",
			Tabs: []Tab{
				consentTab("AI Consent", ContentPurposes),
				legitimateTab("Smart Processing", ContentPurposes),
			},
			Buttons: []Button{
				save("Limit intelligent features", StyleSecondary),
				accept("Enable intelligent experience", StylePrimary),
			},
			DisplayMode:                      DisplayDetailed,
			DefaultChecked:                   true,
			LegitimateInterestDefaultChecked: boolPtr(true),
			PurposeFilter:                    []string{"statistics", "marketing", "profiling", "location_tracking", "biometric_data", "emotional_profiling", "behavioral_manipulation"},
			GridLayout:                       GridTriple,
			ConfusingLanguage:                true,
		},
		{
			ID:          15,
			Title:       "Premium Experience Activation",
			Description: "Unlock the full potential of our platform by enabling advanced personalization and predictive features.",
			Tabs: []Tab{
				consentTab("Premium Consent", ContentPurposes),
				legitimateTab("Enhanced Processing", ContentPurposes),
			},
			Buttons: []Button{
				save("Use basic experience", StyleSecondary),
				accept("Activate premium features", StylePrimary),
			},
			DisplayMode:                      DisplayDetailed,
			DefaultChecked:                   false,
			LegitimateInterestDefaultChecked: boolPtr(true),
			PurposeFilter:                    []string{"marketing", "profiling", "location_tracking", "emotional_profiling", "predictive_analytics", "behavioral_manipulation"},
			GridLayout:                       GridDouble,
			ConfusingLanguage:                true,
			TimePressure:                     30,
		},
		{
			ID:          16,
			Title:       "Support Free Content",
			Description: "Help us keep this service free for everyone by supporting our advertising partners.",
			Tabs:        []Tab{consentTab("Support", ContentPurposes)},
			Buttons: []Button{
				accept("Yes, I want to support free content", StylePrimary),
				save("No, I'd rather pay for premium", StyleSecondary),
			},
			DisplayMode:    DisplaySimple,
			DefaultChecked: true,
			PurposeFilter:  []string{"marketing", "profiling", "behavioral_manipulation"},
			GridLayout:     GridSingle,
			ConfirmShaming: true,
		},
		{
			ID:          17,
			Title:       "Privacy Management Console - Step 1 of 3",
			Description: "Welcome to our comprehensive privacy management system. Configure your data sharing preferences.",
			Tabs:        []Tab{consentTab("Data Sharing", ContentPurposes)},
			Buttons: []Button{
				accept("Continue to Step 2", StylePrimary),
				save("Manage Individual Settings", StyleSecondary),
			},
			DisplayMode:    DisplaySimple,
			DefaultChecked: true,
			PurposeFilter:  []string{"marketing", "profiling", "location_tracking", "emotional_profiling"},
			GridLayout:     GridDouble,
			MultiStep:      true,
		},
		{
			ID:          18,
			Title:       "Comprehensive Privacy Dashboard",
			Description: "Final step: Review all settings across our complete partner ecosystem and data processing categories.",
			Tabs: []Tab{
				consentTab("All Consent Settings", ContentCompaniesDetailed),
				legitimateTab("All Legitimate Interests", ContentCompaniesDetailed),
			},
			Buttons: []Button{
				accept("Finalize All Settings", StylePrimary),
				save("Object to Everything", StyleSecondary),
			},
			DisplayMode:                      DisplayPerCompany,
			DefaultChecked:                   true,
			LegitimateInterestDefaultChecked: boolPtr(true),
			RequireScroll:                    true,
			MaxHeight:                        "300px",
			GridLayout:                       GridTriple,
		},
		{
			ID:          19,
			Title:       "Ultimate Privacy Control Center",
			Description: "Master level: Navigate our complete privacy ecosystem with every available option, category, and partner.",
			Tabs: []Tab{
				consentTab("Complete Consent Matrix", ContentCompaniesDetailed),
				legitimateTab("Full Legitimate Interest Spectrum", ContentCompaniesDetailed),
			},
			Buttons: []Button{
				accept("Accept Curated Experience", StylePrimary),
				save("Manually Configure All", StyleSecondary),
			},
			DisplayMode:                      DisplayPerCompany,
			DefaultChecked:                   true,
			LegitimateInterestDefaultChecked: boolPtr(true),
			RequireScroll:                    true,
			MaxHeight:                        "250px",
			TimePressure:                     60,
			ConfusingLanguage:                true,
		},
		{
			ID:          20,
			Title:       "🍪 COOKIE MONSTER FINAL BOSS 🍪",
			Description: "You've reached the ultimate cookie banner. This represents every dark pattern used by real websites. Good luck!",
			Tabs: []Tab{
				consentTab("🔒 Consent Matrix", ContentCompaniesDetailed),
				legitimateTab("⚡ Legitimate Interests", ContentCompaniesDetailed),
			},
			Buttons: []Button{
				accept("🚀 ACTIVATE PREMIUM EXPERIENCE", StylePrimary),
				save("😔 i'll take the basic experience", StyleSecondary),
			},
			DisplayMode:                      DisplayPerCompany,
			DefaultChecked:                   true,
			LegitimateInterestDefaultChecked: boolPtr(true),
			RequireScroll:                    true,
			MaxHeight:                        "200px",
			TimePressure:                     45,
			ConfusingLanguage:                true,
			ConfirmShaming:                   true,
		},
	}
}

// DefaultLevelCatalog builds the built-in levels against DefaultCatalog.
func DefaultLevelCatalog() *LevelCatalog {
	lc, err := NewLevelCatalog(DefaultCatalog(), DefaultLevels())
	if err != nil {
		panic(fmt.Sprintf("consent: built-in levels are invalid: %v", err))
	}
	return lc
}
