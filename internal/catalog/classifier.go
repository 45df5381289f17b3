package catalog

import "strings"

// Classification rule tokens. Every token is lowercase: comparisons run
// on lowercased product numbers and titles.
var (
	// nonEnglishTitleTokens mark translated editions of a product. The
	// "version)" token catches parenthesized "(sp version)" style suffixes.
	nonEnglishTitleTokens = []string{"version)", "version", "spanish", "chinese", "vietnamese"}

	// individualProductPrefixes are the core individual tax products.
	individualProductPrefixes = []string{"1040", "w-2", "w-4", "1099"}

	// businessProductPrefixes are the core business tax products.
	businessProductPrefixes = []string{"1120", "1065", "1041", "941", "940"}

	// keyPublicationTitles are the plain-language publications worth keeping.
	keyPublicationTitles = []string{
		"publication 17",
		"publication 334",
		"publication 535",
		"publication 946",
		"publication 970",
		"publication 523",
		"publication 936",
	}

	// instructionTitleTokens mark instruction booklets for kept products.
	instructionTitleTokens = []string{"instructions for form", "instructions for schedule"}

	// scheduleToken marks schedule attachments in either field.
	scheduleToken = "schedule"
)

// IsRelevant reports whether a record should be kept and its artifact
// downloaded. Rules run in order and the first match wins, so a
// non-English edition is rejected before any accept rule can see it.
// The decision depends only on the record's ProductNumber and Title.
func IsRelevant(rec *FormRecord) bool {
	product := strings.ToLower(rec.ProductNumber)
	title := strings.ToLower(rec.Title)

	for _, token := range nonEnglishTitleTokens {
		if strings.Contains(title, token) {
			return false
		}
	}

	for _, prefix := range individualProductPrefixes {
		if strings.HasPrefix(product, prefix) {
			return true
		}
	}

	for _, prefix := range businessProductPrefixes {
		if strings.HasPrefix(product, prefix) {
			return true
		}
	}

	if strings.Contains(product, scheduleToken) || strings.Contains(title, scheduleToken) {
		return true
	}

	for _, pub := range keyPublicationTitles {
		if strings.Contains(title, pub) {
			return true
		}
	}

	for _, token := range instructionTitleTokens {
		if strings.Contains(title, token) {
			return true
		}
	}

	return false
}
