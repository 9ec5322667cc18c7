package extract

import (
	"testing"
	"time"

	"github.com/RoadAtlas/DealFlow/internal/models"
)

func TestDetectVehicleMakeModelYear(t *testing.T) {
	fact, ok := DetectVehicle("I'm after a 2019 Porsche 911 with under 20,000 miles")
	if !ok {
		t.Fatal("expected a vehicle fact")
	}
	if fact.Make != "Porsche" {
		t.Errorf("make = %q, want Porsche", fact.Make)
	}
	if fact.Model != "911" {
		t.Errorf("model = %q, want 911", fact.Model)
	}
	if fact.Year != 2019 {
		t.Errorf("year = %d, want 2019", fact.Year)
	}
	if fact.Mileage != 20000 {
		t.Errorf("mileage = %d, want 20000", fact.Mileage)
	}
}

func TestDetectVehicleAliases(t *testing.T) {
	cases := map[string]string{
		"a range rover please":    "Land Rover",
		"looking at a rolls royce": "Rolls-Royce",
		"my vw golf":              "Volkswagen",
		"an aston martin db11":    "Aston Martin",
	}
	for utterance, want := range cases {
		fact, ok := DetectVehicle(utterance)
		if !ok || fact.Make != want {
			t.Errorf("DetectVehicle(%q) make = %q ok=%v, want %q", utterance, fact.Make, ok, want)
		}
	}
}

func TestDetectVehicleYearNotModel(t *testing.T) {
	fact, ok := DetectVehicle("Ferrari 2019")
	if !ok {
		t.Fatal("expected a vehicle fact")
	}
	if fact.Model != "" {
		t.Errorf("a year token must not become the model, got %q", fact.Model)
	}
	if fact.Year != 2019 {
		t.Errorf("year = %d, want 2019", fact.Year)
	}
}

func TestDetectVehicleNoMatch(t *testing.T) {
	if _, ok := DetectVehicle("hello there, how are you?"); ok {
		t.Error("expected no vehicle fact")
	}
}

func TestDetectContactMultipleFields(t *testing.T) {
	fact, ok := DetectContact("Siya, +44 7911 123456, siya@example.com, SW1A 1AA", true)
	if !ok {
		t.Fatal("expected a contact fact")
	}
	if fact.Name != "Siya" {
		t.Errorf("name = %q, want Siya", fact.Name)
	}
	if fact.Email != "siya@example.com" {
		t.Errorf("email = %q", fact.Email)
	}
	if fact.Phone != "+447911123456" {
		t.Errorf("phone = %q, want E.164 +447911123456", fact.Phone)
	}
	if fact.Postcode != "SW1A 1AA" {
		t.Errorf("postcode = %q, want SW1A 1AA", fact.Postcode)
	}
}

func TestDetectContactExplicitName(t *testing.T) {
	fact, ok := DetectContact("my name is John Smith", false)
	if !ok || fact.Name != "John Smith" {
		t.Errorf("fact = %+v ok=%v, want name John Smith", fact, ok)
	}
}

func TestDetectContactBareNameRequiresContactStage(t *testing.T) {
	// Outside a contact stage the remainder heuristic must not fire.
	fact, ok := DetectContact("Weather Report tomorrow@example.com", false)
	if ok && fact.Name != "" {
		t.Errorf("bare-name heuristic fired outside contact stage: %+v", fact)
	}
}

func TestDetectChoiceStageBound(t *testing.T) {
	// "2" during provider selection yields a choice.
	if ch, ok := DetectChoice("2", 3); !ok || ch.Index != 2 {
		t.Errorf("DetectChoice(2) = %+v ok=%v", ch, ok)
	}
	if ch, ok := DetectChoice("option 3", 3); !ok || ch.Index != 3 {
		t.Errorf("DetectChoice(option 3) = %+v ok=%v", ch, ok)
	}
	if ch, ok := DetectChoice("the first one", 3); !ok || ch.Index != 1 {
		t.Errorf("DetectChoice(the first one) = %+v ok=%v", ch, ok)
	}
	// Out of range is ignored.
	if _, ok := DetectChoice("7", 3); ok {
		t.Error("choice beyond max must be rejected")
	}
	if _, ok := DetectChoice("no idea", 3); ok {
		t.Error("expected no choice")
	}
}

func TestExtractChoiceOnlyWhenAwaiting(t *testing.T) {
	signals := Extract("2", Context{AwaitingChoice: false})
	for _, s := range signals {
		if _, isChoice := s.(OptionChoice); isChoice {
			t.Error("numeric token became a choice while no stage awaited one")
		}
	}
	signals = Extract("2", Context{AwaitingChoice: true, ChoiceMax: 3})
	found := false
	for _, s := range signals {
		if ch, isChoice := s.(OptionChoice); isChoice && ch.Index == 2 {
			found = true
		}
	}
	if !found {
		t.Error("expected a choice signal while awaiting one")
	}
}

func TestDetectDateTimeForms(t *testing.T) {
	now := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC) // a Monday

	fact, ok := DetectDateTime("tomorrow at 2pm", now, false)
	if !ok {
		t.Fatal("expected a date fact for tomorrow")
	}
	want := time.Date(2026, time.March, 3, 14, 0, 0, 0, time.UTC)
	if !fact.Value.Equal(want) {
		t.Errorf("value = %v, want %v", fact.Value, want)
	}

	fact, ok = DetectDateTime("book me in on 15/04/2026", now, false)
	if !ok {
		t.Fatal("expected a date fact for slash date")
	}
	want = time.Date(2026, time.April, 15, DefaultAppointmentHour, 0, 0, 0, time.UTC)
	if !fact.Value.Equal(want) {
		t.Errorf("value = %v, want %v", fact.Value, want)
	}

	fact, ok = DetectDateTime("friday morning at 9:30", now, false)
	if !ok {
		t.Fatal("expected a date fact for weekday")
	}
	want = time.Date(2026, time.March, 6, 9, 30, 0, 0, time.UTC)
	if !fact.Value.Equal(want) {
		t.Errorf("value = %v, want %v", fact.Value, want)
	}

	if _, ok = DetectDateTime("2:30pm please", now, false); ok {
		t.Error("time without a date must not match outside an appointment stage")
	}
	fact, ok = DetectDateTime("2:30pm please", now, true)
	if !ok {
		t.Fatal("time-only should match while awaiting an appointment slot")
	}
	want = time.Date(2026, time.March, 2, 14, 30, 0, 0, time.UTC)
	if !fact.Value.Equal(want) {
		t.Errorf("value = %v, want %v", fact.Value, want)
	}
}

func TestDetectConfirmation(t *testing.T) {
	if c, ok := DetectConfirmation("yes please, go ahead"); !ok || !c.Accepted {
		t.Errorf("expected accepted confirmation, got %+v ok=%v", c, ok)
	}
	if c, ok := DetectConfirmation("no thanks"); !ok || c.Accepted {
		t.Errorf("expected declined confirmation, got %+v ok=%v", c, ok)
	}
	if _, ok := DetectConfirmation("the Ferrari looks nice"); ok {
		t.Error("expected no confirmation")
	}
}

func TestDetectDomainPriority(t *testing.T) {
	cases := map[string]models.Domain{
		"I want to buy a car":            models.DomainAcquisition,
		"my car needs an mot":            models.DomainService,
		"I'd like to sell my car":        models.DomainConsignment,
		"buy now, sell later":            models.DomainAcquisition, // acquisition wins
		"book a service for my Audi":     models.DomainService,
		"part exchange my old runabout":  models.DomainConsignment,
	}
	for utterance, want := range cases {
		hint, ok := DetectDomain(utterance)
		if !ok || hint.Domain != want {
			t.Errorf("DetectDomain(%q) = %v ok=%v, want %v", utterance, hint.Domain, ok, want)
		}
	}
	if _, ok := DetectDomain("hello there"); ok {
		t.Error("greeting must not classify to a domain")
	}
}

func TestDetectServiceType(t *testing.T) {
	cases := map[string]string{
		"needs a full service":   "Full Service",
		"book an mot":            "MOT",
		"the brakes are squealing": "Brakes",
		"oil change please":      "Oil Change",
	}
	for utterance, want := range cases {
		fact, ok := DetectServiceType(utterance)
		if !ok || fact.ServiceType != want {
			t.Errorf("DetectServiceType(%q) = %q ok=%v, want %q", utterance, fact.ServiceType, ok, want)
		}
	}
}

func TestDetectFinanceProduct(t *testing.T) {
	if f, ok := DetectFinanceProduct("can I get it on pcp?"); !ok || f.Product != "Personal Contract Purchase" {
		t.Errorf("pcp detection failed: %+v ok=%v", f, ok)
	}
	if f, ok := DetectFinanceProduct("hire purchase would suit"); !ok || f.Product != "Hire Purchase" {
		t.Errorf("hire purchase detection failed: %+v ok=%v", f, ok)
	}
}

// A single utterance carrying a vehicle make, an email and a phone number
// must yield all three facts in one extraction pass.
func TestExtractMultiSignalTurn(t *testing.T) {
	signals := Extract("It's the Bentley. John Smith john@example.com +447911123456", Context{AwaitingContact: true})

	var vehicle *VehicleFact
	var contact *ContactFact
	for _, s := range signals {
		switch v := s.(type) {
		case VehicleFact:
			vehicle = &v
		case ContactFact:
			contact = &v
		}
	}
	if vehicle == nil || vehicle.Make != "Bentley" {
		t.Errorf("vehicle fact missing or wrong: %+v", vehicle)
	}
	if contact == nil {
		t.Fatal("contact fact missing")
	}
	if contact.Email != "john@example.com" {
		t.Errorf("email = %q", contact.Email)
	}
	if contact.Phone != "+447911123456" {
		t.Errorf("phone = %q", contact.Phone)
	}
}

func TestExtractNothing(t *testing.T) {
	if signals := Extract("…", Context{}); len(signals) != 0 {
		t.Errorf("expected empty result, got %d signals", len(signals))
	}
}

func TestIsBareGreeting(t *testing.T) {
	if !IsBareGreeting("Hi there!") {
		t.Error("expected greeting")
	}
	if !IsBareGreeting("good morning") {
		t.Error("expected greeting")
	}
	if IsBareGreeting("hi, I want to buy a Ferrari") {
		t.Error("greeting with intent is not bare")
	}
}
