package consent

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultPurposes returns the built-in consent categories.
// Only "necessary" and "functional" are essential.
func DefaultPurposes() []Purpose {
	return []Purpose{
		// Basic purposes
		{ID: "necessary", Names: []string{"Necessary", "Information Storage and Access"}, Descriptions: []string{"Cookies Required for the display and security of the website."}, Required: true, AlwaysShow: true},
		{ID: "functional", Names: []string{"Functional"}, Descriptions: []string{"Cookies Required for full functioning of the website."}, Required: true},
		{ID: "preferences", Names: []string{"Preferences", "Personalisation"}, Descriptions: []string{"Cookies used to store your preferences"}, AlwaysShow: true},
		{ID: "statistics", Names: []string{"Statistics", "Measurement"}, Descriptions: []string{"Cookies used to track visits and visitors to our website"}, AlwaysShow: true},
		{ID: "marketing", Names: []string{"Marketing", "Ad Selection"}, Descriptions: []string{"Cookies used to serve you advertisements."}, AlwaysShow: true},
		{ID: "performance", Names: []string{"Performance"}, Descriptions: []string{"Cookies used to improve website performance"}, AlwaysShow: true},
		{ID: "security", Names: []string{"Security"}, Descriptions: []string{"Cookies used for security and fraud prevention"}, AlwaysShow: true},

		// Advanced purposes
		{ID: "profiling", Names: []string{"Profiling", "Behavioral Analysis"}, Descriptions: []string{"Creating detailed profiles of your behavior and interests"}},
		{ID: "location_tracking", Names: []string{"Location Tracking", "Geolocation Services"}, Descriptions: []string{"Tracking your precise physical location"}},
		{ID: "biometric_data", Names: []string{"Biometric Data Processing"}, Descriptions: []string{"Processing fingerprints, face recognition, and other biometric data"}},
		{ID: "political_profiling", Names: []string{"Political Profiling"}, Descriptions: []string{"Analyzing political preferences and voting behavior"}},
		{ID: "health_data", Names: []string{"Health Data Processing"}, Descriptions: []string{"Collecting and analyzing health and medical information"}},
		{ID: "financial_data", Names: []string{"Financial Profiling"}, Descriptions: []string{"Analyzing financial status, credit worthiness, and spending patterns"}},
		{ID: "emotional_profiling", Names: []string{"Emotional Profiling"}, Descriptions: []string{"Detecting and analyzing emotional states and psychological traits"}},
		{ID: "relationship_mapping", Names: []string{"Relationship Mapping"}, Descriptions: []string{"Mapping family, friend, and professional relationships"}},
		{ID: "data_brokerage", Names: []string{"Data Brokerage"}, Descriptions: []string{"Selling your data to third-party companies"}},
		{ID: "surveillance", Names: []string{"Surveillance"}, Descriptions: []string{"Comprehensive monitoring of all activities"}},
		{ID: "predictive_analytics", Names: []string{"Predictive Analytics"}, Descriptions: []string{"Predicting future behavior, decisions, and life events"}},
		{ID: "behavioral_manipulation", Names: []string{"Behavioral Manipulation"}, Descriptions: []string{"Using psychological techniques to influence your decisions"}},

		// Hidden purposes
		{ID: "goofy_personalisation", Names: []string{"Goofy Personalisation"}, Descriptions: []string{"Personalisation by the Goofy Company"}},
		{ID: "other", Names: []string{"Other", "Third Party"}, Descriptions: []string{"Other cookies"}},
	}
}

func one(purposeID, id, name, description, duration string) []Cookie {
	return []Cookie{{ID: id, Name: name, Description: description, Duration: duration, HTTPS: true, PurposeID: purposeID}}
}

// DefaultCompanies returns the built-in tracking ecosystem, including the
// thirty procedurally named "generated_N" companies used by the later levels.
func DefaultCompanies() []Company {
	companies := []Company{
		// Basic companies (levels 1-5)
		{ID: "intersussy", Name: "InterSussy Studios", Cookies: one("marketing", "amogus", "X-Amogus", "Stores whether you have played the hit game Amogus", "1 decade")},
		{ID: "goofy_analytics", Name: "Goofy Analytics", Cookies: []Cookie{
			{ID: "ga-ui1", Name: "User ID", Description: "A persistent ID which tracks the user across the web", Duration: "1 year", HTTPS: true, PurposeID: "statistics"},
			{ID: "ga-ua-an", Name: "Goofy Analytics User Agent", Description: "The user agent used by Goofy Analytics", Duration: "1 year", HTTPS: true, PurposeID: "statistics"},
		}},
		{ID: "goofy_advertising", Name: "Goofy Advertising", Cookies: []Cookie{
			{ID: "ga-ui2", Name: "User ID", Description: "A persistent ID which tracks the user across the web", Duration: "1 year", HTTPS: true, PurposeID: "goofy_personalisation"},
			{ID: "ga-ua-ma", Name: "Goofy Advertising User Agent", Description: "The user agent used by Goofy Advertising", Duration: "1 year", HTTPS: true, PurposeID: "marketing"},
		}},
		{ID: "php_session", Name: "Essential Services", Cookies: one("functional", "PHPSESSID", "Session ID", "Remembers User Logins", "1 month")},
		{ID: "social_media", Name: "Social Media Tracker", Cookies: one("marketing", "sm-track", "Social Tracking", "Tracks social media interactions", "2 years")},

		// Mid-tier companies (levels 6-12)
		{ID: "ian", Name: "Integrated Ads Network", Cookies: one("marketing", "ian-user", "User ID", "A persistent ID which tracks the user across the web", "1 year")},
		{ID: "hjeatmap", Name: "Hjeatmap", Cookies: one("statistics", "hjeatmap-id", "Session ID", "An ID to report user clicks to Hjeatmap", "Session")},
		{ID: "video_service", Name: "Video Service", Cookies: one("preferences", "video-pref", "Video Preferences", "Remembers video quality settings", "6 months")},
		{ID: "chat_widget", Name: "Chat Widget Co", Cookies: one("functional", "chat-session", "Chat Session", "Maintains chat conversation state", "Session")},
		{ID: "ad_exchange", Name: "Global Ad Exchange", Cookies: one("marketing", "gax-bid", "Bid Request ID", "Tracks ad auction participation", "30 days")},
		{ID: "payment_processor", Name: "Secure Payments Inc", Cookies: one("functional", "pay-token", "Payment Token", "Secures payment transactions", "1 hour")},
		{ID: "content_delivery", Name: "FastCDN", Cookies: one("performance", "cdn-region", "CDN Region", "Optimizes content delivery speed", "7 days")},
		{ID: "fraud_detection", Name: "FraudShield", Cookies: one("security", "fraud-score", "Fraud Risk Score", "Prevents fraudulent activity", "90 days")},

		// Advanced companies (levels 13-20)
		{ID: "behavioral_analytics", Name: "BehaviorCorp", Cookies: one("profiling", "behavior-pattern", "Behavioral Pattern", "Analyzes user behavior patterns for insights", "2 years")},
		{ID: "location_services", Name: "GeoTracker Pro", Cookies: one("location_tracking", "geo-precise", "Precise Location", "Tracks exact GPS coordinates", "1 year")},
		{ID: "biometric_auth", Name: "BioSecure", Cookies: one("biometric_data", "bio-hash", "Biometric Hash", "Stores fingerprint/face recognition data", "Permanent")},
		{ID: "political_profiling", Name: "VotePredict", Cookies: one("political_profiling", "political-lean", "Political Alignment", "Predicts voting behavior and political preferences", "4 years")},
		{ID: "health_tracking", Name: "HealthInsights", Cookies: one("health_data", "health-metrics", "Health Metrics", "Tracks fitness data and health indicators", "Lifetime")},
		{ID: "financial_profiling", Name: "CreditScope", Cookies: one("financial_data", "credit-worthiness", "Credit Profile", "Assesses financial status and spending power", "7 years")},
		{ID: "emotion_detection", Name: "MoodSense AI", Cookies: one("emotional_profiling", "emotion-state", "Emotional State", "Detects emotions through device sensors", "1 year")},
		{ID: "family_tracking", Name: "FamilyGraph", Cookies: one("relationship_mapping", "family-tree", "Family Connections", "Maps family relationships and connections", "Permanent")},

		// Overwhelming spam companies (level 20)
		{ID: "data_broker_1", Name: "DataMart Solutions", Cookies: one("data_brokerage", "profile-sale", "Profile Resale", "Packages and sells user profiles to third parties", "Unlimited")},
		{ID: "data_broker_2", Name: "InfoHarvester LLC", Cookies: one("data_brokerage", "info-compile", "Information Compilation", "Compiles comprehensive user dossiers", "Unlimited")},
		{ID: "surveillance_corp", Name: "SurveillanceTech", Cookies: one("surveillance", "activity-log", "Activity Surveillance", "Monitors all online and offline activities", "Forever")},
		{ID: "prediction_engine", Name: "FutureCast AI", Cookies: one("predictive_analytics", "life-prediction", "Life Prediction Model", "Predicts future life events and decisions", "Lifetime")},
		{ID: "manipulation_service", Name: "PersuasionMax", Cookies: one("behavioral_manipulation", "persuasion-profile", "Manipulation Vector", "Identifies psychological vulnerabilities for targeted persuasion", "Forever")},
	}

	return append(companies, GeneratedCompanies(30)...)
}

// Word pools for generated company names.
var (
	techWords = []string{"data", "cloud", "smart", "tech", "sync", "flow", "link", "net", "web", "digital", "cyber", "micro", "meta", "pixel", "track", "scope", "vision", "pulse", "wave", "shift", "core", "edge", "apex", "prime", "max", "pro", "ultra", "hyper", "nano", "quantum", "neural"}
	suffixes  = []string{"ly", "ify", "io", "ai", "co", "inc", "corp", "labs", "works", "systems", "solutions", "services", "tech", "soft", "ware", "hub", "nest", "forge", "matrix"}

	cookieTypes = []string{"tracker", "pixel", "beacon", "session", "profile", "analytics", "metrics", "insights"}
	durations   = []string{"Session", "30 days", "1 year", "2 years"}
)

// GeneratedCompanies builds n deterministic filler companies with ids
// generated_1..generated_n. Names rotate through four naming patterns.
func GeneratedCompanies(n int) []Company {
	out := make([]Company, 0, n)
	for i := 0; i < n; i++ {
		word1 := techWords[(i*7)%len(techWords)]
		word2 := techWords[(i*11)%len(techWords)]
		suffix := suffixes[(i*13)%len(suffixes)]

		var name string
		switch i % 4 {
		case 0: // drop vowels
			name = capitalize(dropVowels(word1)) + capitalize(word2)
		case 1: // tech suffix
			name = capitalize(word1) + capitalize(suffix)
		case 2: // compound
			name = capitalize(word1) + capitalize(word2)
		case 3: // shortened
			name = capitalize(prefix(word1, 3)) + capitalize(prefix(word2, 3))
		}

		cookieType := cookieTypes[i%len(cookieTypes)]

		var purposeID string
		switch i % 3 {
		case 0:
			purposeID = "marketing"
		case 1:
			purposeID = "statistics"
		default:
			purposeID = "preferences"
		}

		out = append(out, Company{
			ID:   fmt.Sprintf("generated_%d", i+1),
			Name: name,
			Cookies: []Cookie{{
				ID:          strings.ToLower(name) + "_" + cookieType,
				Name:        capitalize(cookieType) + " Cookie",
				Description: fmt.Sprintf("%s's %s for enhanced user experience", name, cookieType),
				Duration:    durations[i%len(durations)],
				HTTPS:       true,
				PurposeID:   purposeID,
			}},
		})
	}
	return out
}

func dropVowels(word string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			return -1
		}
		return r
	}, word)
}

// capitalize upper-cases the first letter and leaves the rest alone.
func capitalize(word string) string {
	return cases.Title(language.English, cases.NoLower).String(word)
}

func prefix(word string, n int) string {
	if len(word) <= n {
		return word
	}
	return word[:n]
}

// DefaultCatalog builds the built-in domain catalog.
// The built-in content is known to be consistent, so failure is a programming error.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultPurposes(), DefaultCompanies())
	if err != nil {
		panic(fmt.Sprintf("consent: built-in catalog is invalid: %v", err))
	}
	return c
}
