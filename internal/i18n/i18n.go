// Package i18n maps billing counterparties to a notification locale and
// translates the reminder strings sent to them.
package i18n

import "strings"

// DefaultLocale is used when a country has no mapping or a translation
// is missing for the requested locale.
const DefaultLocale = "en"

// countryLocales maps ISO 3166-1 alpha-2 country codes to the locale
// reminders are written in. Countries not listed fall back to DefaultLocale.
var countryLocales = map[string]string{
	"FR": "fr",
	"BE": "fr",
	"LU": "fr",
	"MC": "fr",
	"DE": "de",
	"AT": "de",
	"CH": "de",
	"NL": "nl",
	"ES": "es",
	"IT": "it",
	"PT": "pt",
	"GB": "en",
	"IE": "en",
	"US": "en",
	"CA": "en",
	"AU": "en",
}

// LocaleForCountry returns the notification locale for a country code.
// The code is matched case-insensitively; unknown or empty codes map to
// DefaultLocale.
func LocaleForCountry(code string) string {
	if locale, ok := countryLocales[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return locale
	}
	return DefaultLocale
}

var translations = map[string]map[string]string{
	"en": {
		"reminder.upcoming.subject":  "Invoice %s is due soon",
		"reminder.due_today.subject": "Invoice %s is due today",
		"reminder.overdue.subject":   "Invoice %s is overdue",
		"reminder.upcoming.body":     "Invoice %s for %s %s is due on %s.",
		"reminder.due_today.body":    "Invoice %s for %s %s is due today (%s).",
		"reminder.overdue.body":      "Invoice %s for %s %s was due on %s and is now overdue.",
	},
	"fr": {
		"reminder.upcoming.subject":  "La facture %s arrive à échéance",
		"reminder.due_today.subject": "La facture %s est due aujourd'hui",
		"reminder.overdue.subject":   "La facture %s est en retard",
		"reminder.upcoming.body":     "La facture %s d'un montant de %s %s arrive à échéance le %s.",
		"reminder.due_today.body":    "La facture %s d'un montant de %s %s est due aujourd'hui (%s).",
		"reminder.overdue.body":      "La facture %s d'un montant de %s %s était due le %s et est en retard.",
	},
	"de": {
		"reminder.upcoming.subject":  "Rechnung %s ist bald fällig",
		"reminder.due_today.subject": "Rechnung %s ist heute fällig",
		"reminder.overdue.subject":   "Rechnung %s ist überfällig",
		"reminder.upcoming.body":     "Rechnung %s über %s %s ist am %s fällig.",
		"reminder.due_today.body":    "Rechnung %s über %s %s ist heute fällig (%s).",
		"reminder.overdue.body":      "Rechnung %s über %s %s war am %s fällig und ist jetzt überfällig.",
	},
	"nl": {
		"reminder.upcoming.subject":  "Factuur %s vervalt binnenkort",
		"reminder.due_today.subject": "Factuur %s vervalt vandaag",
		"reminder.overdue.subject":   "Factuur %s is achterstallig",
		"reminder.upcoming.body":     "Factuur %s van %s %s vervalt op %s.",
		"reminder.due_today.body":    "Factuur %s van %s %s vervalt vandaag (%s).",
		"reminder.overdue.body":      "Factuur %s van %s %s verviel op %s en is nu achterstallig.",
	},
	"es": {
		"reminder.upcoming.subject":  "La factura %s vence pronto",
		"reminder.due_today.subject": "La factura %s vence hoy",
		"reminder.overdue.subject":   "La factura %s está vencida",
		"reminder.upcoming.body":     "La factura %s por %s %s vence el %s.",
		"reminder.due_today.body":    "La factura %s por %s %s vence hoy (%s).",
		"reminder.overdue.body":      "La factura %s por %s %s venció el %s y está pendiente de pago.",
	},
}

// T returns the translation for key in the given locale.
// Unknown locales fall back to DefaultLocale; unknown keys fall back to
// the key itself so callers always get a usable string.
func T(locale, key string) string {
	if msgs, ok := translations[locale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msgs, ok := translations[DefaultLocale]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return key
}
