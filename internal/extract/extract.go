// Package extract parses one user utterance into zero or more structured
// signals.
//
// Detection runs a set of independent pattern detectors (vehicle lexicon,
// email/phone/postcode/date expression families, a stage-bound numeric
// choice, domain keyword sets) and returns the union of their results, not
// the first match: a single message legitimately carries multiple facts.
// Every detector is a pure function returning (Signal, bool); "nothing
// extracted" is an empty slice, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/finance"
	"github.com/RoadAtlas/DealFlow/internal/models"
	"github.com/nyaruka/phonenumbers"
)

// Signal is one structured fact extracted from a user utterance.
type Signal interface {
	signal()
}

// VehicleFact carries vehicle attributes stated by the user.
type VehicleFact struct {
	Make    string
	Model   string
	Year    int
	Mileage int
}

// ContactFact carries customer contact attributes.
type ContactFact struct {
	Name     string
	Email    string
	Phone    string
	Postcode string
}

// OptionChoice is a 1-based selection from a presented list. It is only
// produced while the current stage awaits a choice.
type OptionChoice struct {
	Index int
}

// DateTimeFact is a parsed appointment date and time.
type DateTimeFact struct {
	Value time.Time
}

// ConfirmationFact is an explicit yes/no from the user.
type ConfirmationFact struct {
	Accepted bool
}

// DomainHintFact is a keyword-derived funnel classification.
type DomainHintFact struct {
	Domain models.Domain
}

// ServiceFact is a recognised workshop service type.
type ServiceFact struct {
	ServiceType string
}

// FinanceFact is a recognised finance product preference.
type FinanceFact struct {
	Product string
}

func (VehicleFact) signal()      {}
func (ContactFact) signal()      {}
func (OptionChoice) signal()     {}
func (DateTimeFact) signal()     {}
func (ConfirmationFact) signal() {}
func (DomainHintFact) signal()   {}
func (ServiceFact) signal()      {}
func (FinanceFact) signal()      {}

// Context carries the stage-dependent extraction hints. A numeric token is
// interpreted as an option choice only while the machine's current stage
// explicitly awaits one; a bare capitalized remainder becomes a name only
// while the stage awaits contact details.
type Context struct {
	AwaitingChoice  bool
	ChoiceMax       int // 0 means unbounded
	AwaitingContact bool
	AwaitingDate    bool
	Now             time.Time
}

// Extract runs every detector against the utterance and returns the union
// of their results.
func Extract(utterance string, ectx Context) []Signal {
	var signals []Signal

	if v, ok := DetectVehicle(utterance); ok {
		signals = append(signals, v)
	}
	if c, ok := DetectContact(utterance, ectx.AwaitingContact); ok {
		signals = append(signals, c)
	}
	if ectx.AwaitingChoice {
		if ch, ok := DetectChoice(utterance, ectx.ChoiceMax); ok {
			signals = append(signals, ch)
		}
	}
	if d, ok := DetectDateTime(utterance, ectx.Now, ectx.AwaitingDate); ok {
		signals = append(signals, d)
	}
	if cf, ok := DetectConfirmation(utterance); ok {
		signals = append(signals, cf)
	}
	if dh, ok := DetectDomain(utterance); ok {
		signals = append(signals, dh)
	}
	if sf, ok := DetectServiceType(utterance); ok {
		signals = append(signals, sf)
	}
	if ff, ok := DetectFinanceProduct(utterance); ok {
		signals = append(signals, ff)
	}

	return signals
}

// makeLexicon maps lowercase make aliases to their canonical form. Longer
// aliases are matched first so "aston martin" beats a later "martin".
var makeLexicon = []struct {
	alias     string
	canonical string
}{
	{"aston martin", "Aston Martin"},
	{"rolls-royce", "Rolls-Royce"},
	{"rolls royce", "Rolls-Royce"},
	{"range rover", "Land Rover"},
	{"land rover", "Land Rover"},
	{"mercedes-benz", "Mercedes-Benz"},
	{"mercedes", "Mercedes-Benz"},
	{"volkswagen", "Volkswagen"},
	{"lamborghini", "Lamborghini"},
	{"ferrari", "Ferrari"},
	{"porsche", "Porsche"},
	{"bentley", "Bentley"},
	{"mclaren", "McLaren"},
	{"maserati", "Maserati"},
	{"bugatti", "Bugatti"},
	{"jaguar", "Jaguar"},
	{"tesla", "Tesla"},
	{"toyota", "Toyota"},
	{"nissan", "Nissan"},
	{"honda", "Honda"},
	{"lexus", "Lexus"},
	{"volvo", "Volvo"},
	{"audi", "Audi"},
	{"ford", "Ford"},
	{"mini", "MINI"},
	{"bmw", "BMW"},
	{"vw", "Volkswagen"},
}

var (
	yearRe    = regexp.MustCompile(`(?:^|[^0-9£$,])((?:19[5-9]|20[0-4])[0-9])(?:[^0-9,]|$)`)
	mileageRe = regexp.MustCompile(`(?i)\b([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)\s*(k)?\s*(?:miles|mi)\b`)
	mileage2Re = regexp.MustCompile(`(?i)\bmileage(?:\s+is|\s+of)?\s*:?\s*([0-9]{1,3}(?:,[0-9]{3})+|[0-9]+)\b`)
	modelTokenRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-]*$`)
)

// modelStopwords are tokens that can follow a make but are never a model.
var modelStopwords = map[string]bool{
	"car": true, "cars": true, "vehicle": true, "please": true, "thanks": true,
	"for": true, "and": true, "with": true, "the": true, "a": true, "an": true,
	"in": true, "or": true, "to": true, "is": true, "my": true, "service": true,
	"mot": true, "needs": true, "that": true, "one": true,
}

// DetectVehicle matches the vehicle-make lexicon plus year and mileage
// expressions. The model is taken as the token immediately following the
// make when it looks like a model designation.
func DetectVehicle(utterance string) (VehicleFact, bool) {
	var fact VehicleFact
	lower := strings.ToLower(utterance)

	for _, entry := range makeLexicon {
		idx := indexWord(lower, entry.alias)
		if idx < 0 {
			continue
		}
		fact.Make = entry.canonical
		// Model candidate: the next token after the make.
		rest := strings.TrimSpace(utterance[idx+len(entry.alias):])
		if tok := firstToken(rest); tok != "" {
			trimmed := strings.Trim(tok, ".,!?")
			if modelTokenRe.MatchString(trimmed) && !modelStopwords[strings.ToLower(trimmed)] && !looksLikeYear(trimmed) {
				if hasDigit(trimmed) || isUpperStart(trimmed) {
					fact.Model = trimmed
				}
			}
		}
		break
	}

	if m := yearRe.FindStringSubmatch(utterance); m != nil {
		if year, err := strconv.Atoi(m[1]); err == nil {
			fact.Year = year
		}
	}

	if m := mileageRe.FindStringSubmatch(utterance); m != nil {
		if miles, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			if strings.EqualFold(m[2], "k") {
				miles *= 1000
			}
			fact.Mileage = miles
		}
	} else if m := mileage2Re.FindStringSubmatch(utterance); m != nil {
		if miles, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", "")); err == nil {
			fact.Mileage = miles
		}
	}

	if fact.Make == "" && fact.Year == 0 && fact.Mileage == 0 {
		return VehicleFact{}, false
	}
	return fact, true
}

var (
	emailRe    = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?[0-9][0-9\s().-]{6,}[0-9]`)
	postcodeRe = regexp.MustCompile(`(?i)\b([A-Z]{1,2}[0-9][A-Z0-9]?)\s*([0-9][A-Z]{2})\b`)
	// The trigger phrase matches either case but the captured name itself
	// must be capitalized, so "I'm heading out" never reads as a name.
	nameRe = regexp.MustCompile(`\b(?:[Mm]y name is|[Ii] am|[Ii]'m|[Tt]his is)\s+([A-Z][A-Za-z'-]*(?:\s+[A-Z][A-Za-z'-]*){0,3})`)
	nameWordRe = regexp.MustCompile(`^[A-Za-z][A-Za-z'-]*$`)
)

// nameStopwords are remainder tokens that disqualify a bare-name reading.
var nameStopwords = map[string]bool{
	"and": true, "is": true, "my": true, "email": true, "phone": true,
	"number": true, "name": true, "the": true, "at": true, "on": true,
	"call": true, "me": true, "you": true, "can": true, "reach": true,
}

// DetectContact matches the email/phone/postcode expression families and
// the name patterns. The bare-remainder name heuristic (contact fields with
// leftover capitalized words) only applies while the stage awaits contact
// details, to avoid reading unrelated prose as a name.
func DetectContact(utterance string, awaitingContact bool) (ContactFact, bool) {
	var fact ContactFact
	remainder := utterance

	if m := emailRe.FindString(utterance); m != "" {
		fact.Email = m
		remainder = strings.Replace(remainder, m, " ", 1)
	}

	if m := postcodeRe.FindStringSubmatch(remainder); m != nil {
		fact.Postcode = strings.ToUpper(m[1]) + " " + strings.ToUpper(m[2])
		remainder = strings.Replace(remainder, m[0], " ", 1)
	}

	for _, candidate := range phoneRe.FindAllString(remainder, -1) {
		num, err := phonenumbers.Parse(candidate, "GB")
		if err != nil {
			continue
		}
		if !phonenumbers.IsValidNumber(num) {
			continue
		}
		fact.Phone = phonenumbers.Format(num, phonenumbers.E164)
		remainder = strings.Replace(remainder, candidate, " ", 1)
		break
	}

	if m := nameRe.FindStringSubmatch(remainder); m != nil {
		fact.Name = strings.TrimSpace(m[1])
	} else if awaitingContact && (fact.Email != "" || fact.Phone != "" || fact.Postcode != "") {
		if name, ok := bareName(remainder); ok {
			fact.Name = name
		}
	}

	if fact == (ContactFact{}) {
		return ContactFact{}, false
	}
	return fact, true
}

// bareName accepts a stripped remainder of one to four plain word tokens as
// a person's name.
func bareName(remainder string) (string, bool) {
	cleaned := strings.FieldsFunc(remainder, func(r rune) bool {
		return r == ',' || r == ';' || r == ':' || r == '.' || r == ' ' || r == '\t' || r == '\n'
	})
	var words []string
	for _, w := range cleaned {
		if w == "" {
			continue
		}
		if !nameWordRe.MatchString(w) || nameStopwords[strings.ToLower(w)] {
			return "", false
		}
		words = append(words, w)
	}
	if len(words) == 0 || len(words) > 4 {
		return "", false
	}
	return strings.Join(words, " "), true
}

var (
	bareChoiceRe    = regexp.MustCompile(`^\s*([0-9]{1,2})\s*[.)]?\s*$`)
	phrasedChoiceRe = regexp.MustCompile(`(?i)\b(?:option|number|choice)\s+([0-9]{1,2})\b`)
)

var ordinalWords = map[string]int{
	"first": 1, "second": 2, "third": 3, "fourth": 4, "fifth": 5,
	"1st": 1, "2nd": 2, "3rd": 3, "4th": 4, "5th": 5,
}

// DetectChoice matches a short numeric or ordinal selection. The caller
// only invokes it while the current stage awaits a choice; max bounds the
// accepted index when greater than zero.
func DetectChoice(utterance string, max int) (OptionChoice, bool) {
	idx := 0
	if m := bareChoiceRe.FindStringSubmatch(utterance); m != nil {
		idx, _ = strconv.Atoi(m[1])
	} else if m := phrasedChoiceRe.FindStringSubmatch(utterance); m != nil {
		idx, _ = strconv.Atoi(m[1])
	} else {
		lower := strings.ToLower(utterance)
		for word, n := range ordinalWords {
			if indexWord(lower, word) >= 0 {
				idx = n
				break
			}
		}
	}
	if idx < 1 {
		return OptionChoice{}, false
	}
	if max > 0 && idx > max {
		return OptionChoice{}, false
	}
	return OptionChoice{Index: idx}, true
}

var (
	isoDateRe   = regexp.MustCompile(`\b([0-9]{4})-([0-9]{1,2})-([0-9]{1,2})\b`)
	slashDateRe = regexp.MustCompile(`\b([0-9]{1,2})[/.]([0-9]{1,2})[/.]([0-9]{4})\b`)
	monthDateRe = regexp.MustCompile(`(?i)\b([0-9]{1,2})(?:st|nd|rd|th)?\s+(january|february|march|april|may|june|july|august|september|october|november|december)(?:\s+([0-9]{4}))?\b`)
	timeRe      = regexp.MustCompile(`(?i)\b([0-9]{1,2})(?::([0-9]{2}))?\s*(am|pm)\b|\b([0-9]{1,2}):([0-9]{2})\b`)
)

var monthsByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June, "july": time.July,
	"august": time.August, "september": time.September, "october": time.October,
	"november": time.November, "december": time.December,
}

var weekdaysByName = map[string]time.Weekday{
	"sunday": time.Sunday, "monday": time.Monday, "tuesday": time.Tuesday,
	"wednesday": time.Wednesday, "thursday": time.Thursday,
	"friday": time.Friday, "saturday": time.Saturday,
}

// DefaultAppointmentHour is used when the user gives a date without a time.
const DefaultAppointmentHour = 10

// DetectDateTime parses absolute and relative date expressions plus an
// optional clock time. A time without any date is accepted only while the
// stage awaits an appointment slot (it then means the nearest upcoming
// occurrence of that time).
func DetectDateTime(utterance string, now time.Time, awaitingDate bool) (DateTimeFact, bool) {
	if now.IsZero() {
		now = time.Now()
	}
	lower := strings.ToLower(utterance)

	var (
		date    time.Time
		hasDate bool
	)

	switch {
	case indexWord(lower, "tomorrow") >= 0:
		date = now.AddDate(0, 0, 1)
		hasDate = true
	case indexWord(lower, "today") >= 0:
		date = now
		hasDate = true
	default:
		if m := isoDateRe.FindStringSubmatch(utterance); m != nil {
			y, _ := strconv.Atoi(m[1])
			mo, _ := strconv.Atoi(m[2])
			d, _ := strconv.Atoi(m[3])
			if parsed, ok := civilDate(y, mo, d, now.Location()); ok {
				date, hasDate = parsed, true
			}
		} else if m := slashDateRe.FindStringSubmatch(utterance); m != nil {
			d, _ := strconv.Atoi(m[1])
			mo, _ := strconv.Atoi(m[2])
			y, _ := strconv.Atoi(m[3])
			if parsed, ok := civilDate(y, mo, d, now.Location()); ok {
				date, hasDate = parsed, true
			}
		} else if m := monthDateRe.FindStringSubmatch(utterance); m != nil {
			d, _ := strconv.Atoi(m[1])
			mo := monthsByName[strings.ToLower(m[2])]
			y := now.Year()
			if m[3] != "" {
				y, _ = strconv.Atoi(m[3])
			}
			if parsed, ok := civilDate(y, int(mo), d, now.Location()); ok {
				if m[3] == "" && parsed.Before(now.Truncate(24*time.Hour)) {
					parsed = parsed.AddDate(1, 0, 0)
				}
				date, hasDate = parsed, true
			}
		} else {
			for name, wd := range weekdaysByName {
				if indexWord(lower, name) < 0 {
					continue
				}
				days := (int(wd) - int(now.Weekday()) + 7) % 7
				if days == 0 {
					days = 7
				}
				date = now.AddDate(0, 0, days)
				hasDate = true
				break
			}
		}
	}

	hour, minute, hasTime := parseClockTime(utterance)

	if !hasDate && !hasTime {
		return DateTimeFact{}, false
	}
	if !hasDate {
		if !awaitingDate {
			return DateTimeFact{}, false
		}
		candidate := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
		if !candidate.After(now) {
			candidate = candidate.AddDate(0, 0, 1)
		}
		return DateTimeFact{Value: candidate}, true
	}
	if !hasTime {
		hour, minute = DefaultAppointmentHour, 0
	}
	value := time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, now.Location())
	return DateTimeFact{Value: value}, true
}

func parseClockTime(utterance string) (hour, minute int, ok bool) {
	m := timeRe.FindStringSubmatch(utterance)
	if m == nil {
		return 0, 0, false
	}
	if m[3] != "" { // am/pm form
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		if hour < 1 || hour > 12 || minute > 59 {
			return 0, 0, false
		}
		if strings.EqualFold(m[3], "pm") && hour != 12 {
			hour += 12
		}
		if strings.EqualFold(m[3], "am") && hour == 12 {
			hour = 0
		}
		return hour, minute, true
	}
	hour, _ = strconv.Atoi(m[4])
	minute, _ = strconv.Atoi(m[5])
	if hour > 23 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

func civilDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 || year < 1950 || year > 2100 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Day() != day { // e.g. 31/02
		return time.Time{}, false
	}
	return t, true
}

var confirmWords = map[string]bool{
	"yes": true, "yeah": true, "yep": true, "sure": true, "ok": true,
	"okay": true, "confirm": true, "confirmed": true, "definitely": true,
	"absolutely": true, "correct": true,
}

var declineWords = map[string]bool{
	"no": true, "nope": true, "nah": true, "cancel": true, "stop": true,
	"never": true,
}

// DetectConfirmation matches explicit yes/no tokens and a few common
// phrases ("go ahead", "not now").
func DetectConfirmation(utterance string) (ConfirmationFact, bool) {
	lower := strings.ToLower(utterance)
	if indexWord(lower, "go ahead") >= 0 || indexWord(lower, "sounds good") >= 0 {
		return ConfirmationFact{Accepted: true}, true
	}
	if indexWord(lower, "not now") >= 0 || indexWord(lower, "no thanks") >= 0 {
		return ConfirmationFact{Accepted: false}, true
	}
	for _, tok := range tokens(lower) {
		if confirmWords[tok] {
			return ConfirmationFact{Accepted: true}, true
		}
		if declineWords[tok] {
			return ConfirmationFact{Accepted: false}, true
		}
	}
	return ConfirmationFact{}, false
}

// Domain keyword lexicons. Acquisition keywords take priority over service
// keywords, which take priority over consignment keywords.
var (
	acquisitionPhrases = []string{
		"buy", "buying", "purchase", "purchasing", "looking for",
		"interested in", "in the market", "test drive", "looking to get",
	}
	servicePhrases = []string{
		"service", "servicing", "mot", "repair", "maintenance", "oil change",
		"brakes", "brake", "tyre", "tyres", "diagnostic", "diagnostics",
		"book in", "check up", "checkup",
	}
	consignmentPhrases = []string{
		"sell", "selling", "consign", "consignment", "trade in", "trade-in",
		"part exchange", "part-exchange", "list my", "valuation", "value my",
	}
)

// DetectDomain classifies the utterance against the domain keyword sets,
// honoring the acquisition > service > consignment priority.
func DetectDomain(utterance string) (DomainHintFact, bool) {
	lower := strings.ToLower(utterance)
	for _, phrase := range acquisitionPhrases {
		if indexWord(lower, phrase) >= 0 {
			return DomainHintFact{Domain: models.DomainAcquisition}, true
		}
	}
	for _, phrase := range servicePhrases {
		if indexWord(lower, phrase) >= 0 {
			return DomainHintFact{Domain: models.DomainService}, true
		}
	}
	for _, phrase := range consignmentPhrases {
		if indexWord(lower, phrase) >= 0 {
			return DomainHintFact{Domain: models.DomainConsignment}, true
		}
	}
	return DomainHintFact{}, false
}

// serviceTypeLexicon maps service phrases to their canonical type. Longer
// phrases first so "full service" beats "service".
var serviceTypeLexicon = []struct {
	phrase    string
	canonical string
}{
	{"interim service", "Interim Service"},
	{"major service", "Major Service"},
	{"full service", "Full Service"},
	{"oil change", "Oil Change"},
	{"diagnostics", "Diagnostics"},
	{"diagnostic", "Diagnostics"},
	{"brakes", "Brakes"},
	{"brake", "Brakes"},
	{"tyres", "Tyres"},
	{"tyre", "Tyres"},
	{"repair", "Repair"},
	{"mot", "MOT"},
	{"service", "Full Service"},
}

// DetectServiceType recognises a workshop service type in the utterance.
func DetectServiceType(utterance string) (ServiceFact, bool) {
	lower := strings.ToLower(utterance)
	for _, entry := range serviceTypeLexicon {
		if indexWord(lower, entry.phrase) >= 0 {
			return ServiceFact{ServiceType: entry.canonical}, true
		}
	}
	return ServiceFact{}, false
}

// financeLexicon maps finance phrases to the calculator product names.
var financeLexicon = []struct {
	phrase  string
	product string
}{
	{"hire purchase", finance.ProductHirePurchase},
	{"contract purchase", finance.ProductPCP},
	{"pcp", finance.ProductPCP},
	{"hp", finance.ProductHirePurchase},
	{"leasing", finance.ProductLease},
	{"lease", finance.ProductLease},
	{"bespoke", finance.ProductBespoke},
	{"cash", "Cash"},
}

// DetectFinanceProduct recognises a finance product preference.
func DetectFinanceProduct(utterance string) (FinanceFact, bool) {
	lower := strings.ToLower(utterance)
	for _, entry := range financeLexicon {
		if indexWord(lower, entry.phrase) >= 0 {
			return FinanceFact{Product: entry.product}, true
		}
	}
	return FinanceFact{}, false
}

// Greetings recognised by the router; exported for its use.
var greetingWords = map[string]bool{
	"hi": true, "hello": true, "hey": true, "hiya": true, "howdy": true,
	"morning": true, "afternoon": true, "evening": true, "greetings": true,
}

// IsBareGreeting reports whether the utterance is a greeting with no other
// signal content.
func IsBareGreeting(utterance string) bool {
	toks := tokens(strings.ToLower(utterance))
	if len(toks) == 0 || len(toks) > 4 {
		return false
	}
	sawGreeting := false
	for _, tok := range toks {
		if greetingWords[tok] {
			sawGreeting = true
			continue
		}
		if tok != "there" && tok != "good" {
			return false
		}
	}
	return sawGreeting
}

// indexWord finds phrase in s at a word boundary, returning the byte index
// or -1.
func indexWord(s, phrase string) int {
	from := 0
	for {
		idx := strings.Index(s[from:], phrase)
		if idx < 0 {
			return -1
		}
		idx += from
		beforeOK := idx == 0 || !isWordByte(s[idx-1])
		end := idx + len(phrase)
		afterOK := end == len(s) || !isWordByte(s[end])
		if beforeOK && afterOK {
			return idx
		}
		from = idx + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '\'')
	})
}

func firstToken(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func hasDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}

func isUpperStart(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

// looksLikeYear filters four-digit model-year tokens out of model detection.
func looksLikeYear(s string) bool {
	if len(s) != 4 || !hasDigit(s) {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1950 && n <= 2049
}
