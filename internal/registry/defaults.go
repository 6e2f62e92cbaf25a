package registry

import "github.com/docforge/docforge/internal/derive"

// defaultCountries returns the seeded country table.
func defaultCountries() map[string]derive.CountryInfo {
	return map[string]derive.CountryInfo{
		"India": {
			StandardTime:      "Indian Standard Time (IST)",
			DialingCode:       "+91",
			StandardTimeShort: "IST",
			Currency:          "INR",
		},
		"UAE": {
			StandardTime:      "Gulf Standard Time (GST)",
			DialingCode:       "+971",
			StandardTimeShort: "GST",
			Currency:          "AED",
		},
		"Australia": {
			StandardTime:      "Australian Eastern Standard Time (AEST)",
			DialingCode:       "+61",
			StandardTimeShort: "AEST",
			Currency:          "AUD",
		},
	}
}

// computedVariables are filled by derivation, never by form input. Schemas
// derived from template introspection exclude them.
var computedVariables = map[string]bool{
	"Event_Day":                         true,
	"Country_Standard_Time":             true,
	"Country_Code":                      true,
	"Country_Standard_Time_Short":       true,
	"COUNTRY_CURRENCY_SHORT_NAME":       true,
	"End_Time_For_Booking_Venue":        true,
	"Start_Time_For_Report_Preparation": true,
	"End_Time_For_Report_Preparation":   true,
	"Total_Time":                        true,
	"Service_Time":                      true,
	"Distance_In_Miles":                 true,
}

// selectOptionsByVariable fixes the option vocabulary for known select
// fields, consistent across all action types.
var selectOptionsByVariable = map[string][]string{
	"Meeting_Type": {"Virtual", "In Person", "None"},
	"Room_Type":    {"Single", "Double", "Suite", "Twin", "None"},
	"Notary_Type":  {"In Person", "Virtual", "None"},
}

// arrangeVenueFields is the one fully hand-registered schema; the remaining
// actions derive theirs from template introspection. Computed entries keep
// validation strict: derivation must have produced them before merge.
func arrangeVenueFields() []Field {
	fields := []Field{
		{Name: "Date_of_FR", Type: FieldTypeDate, Label: "Date of FR", Section: "Dates"},
		{Name: "Event_Date", Type: FieldTypeDate, Label: "Event Date", Section: "Dates"},
		{Name: "Claimant_Name", Type: FieldTypeText, Label: "Claimant Name", Section: "Claimant Details", Placeholder: "Full name"},
		{Name: "Event_Type", Type: FieldTypeText, Label: "Event Type", Section: "Claimant Details"},
		{Name: "Event_Time", Type: FieldTypeTime, Label: "Event Time", Section: "Times"},
		{Name: "Start_Time_For_Booking_Venue", Type: FieldTypeTime, Label: "Start Time for Booking Venue", Section: "Times"},
		{Name: "Venue_Name", Type: FieldTypeText, Label: "Venue Name", Section: "Venue Information", Placeholder: "Name"},
		{Name: "Venue_Number", Type: FieldTypeText, Label: "Venue Number", Section: "Venue Information", Placeholder: "Number"},
		{Name: "Venue_Address", Type: FieldTypeText, Label: "Venue Address", Section: "Venue Information", Placeholder: "Full address"},
		{Name: "Reception_Person_Name", Type: FieldTypeText, Label: "Reception Person Name", Section: "Venue Information", Placeholder: "Contact name"},
		{Name: "Meeting_Type", Type: FieldTypeSelect, Label: "Meeting Type", Section: "Distance & Options", Options: selectOptionsByVariable["Meeting_Type"], Default: "None", BlankAllowed: true},
		{Name: "Distance_In_Kilometres", Type: FieldTypeNumber, Label: "Distance in Kilometres", Section: "Distance & Options", Placeholder: "e.g. 5.2", FullWidth: true},
		{Name: "logo", Type: FieldTypeImage, Label: "Logo / Image", Section: "Attachments", FullWidth: true},
	}

	computed := []string{
		"Country_Standard_Time",
		"Country_Code",
		"Country_Standard_Time_Short",
		"COUNTRY_CURRENCY_SHORT_NAME",
		"End_Time_For_Booking_Venue",
		"Start_Time_For_Report_Preparation",
		"End_Time_For_Report_Preparation",
		"Event_Day",
		"Distance_In_Miles",
		"Total_Time",
		"Service_Time",
	}
	for _, name := range computed {
		fields = append(fields, Field{
			Name:     name,
			Type:     inferFieldType(name),
			Label:    formatLabel(name),
			Section:  inferSection(name, false),
			Computed: true,
		})
	}
	return fields
}

// defaultActions returns the seeded action catalogue.
func defaultActions() map[string]Action {
	catalogue := []struct {
		slug       string
		template   string
		automation string
		fields     []Field
	}{
		{"arrange-venue", "arrangeVenue.docx", "arrangeVenue", arrangeVenueFields()},
		{"cancel-venue", "cancelVenue.docx", "cancelVenue", nil},
		{"arrange-transportation", "arrangeTransportation.docx", "arrangeTransportation", nil},
		{"cancel-transportation", "cancelTransportation.docx", "cancelTransportation", nil},
		{"arrange-accommodation", "arrangeAccommodation.docx", "arrangeAccommodation", nil},
		{"cancel-accommodation", "cancelAccommodation.docx", "cancelAccommodation", nil},
		{"arrange-notary", "arrangeNotary.docx", "arrangeNotary", nil},
		{"cancel-notary", "cancelNotary.docx", "cancelNotary", nil},
		{"arrange-ent-test", "arrangeENTTest.docx", "arrangeENTTest", nil},
		{"cancel-ent-test", "cancelENTTest.docx", "cancelENTTest", nil},
		{"no-transportation-needed", "noTransportationNeeded.docx", "noTransportationNeeded", nil},
		{"contact-claimant", "contactClaimant.docx", "contactClaimant", nil},
		{"fa-traveled-to-attend", "faTraveledToAttend.docx", "faTraveledToAttend", nil},
		{"fa-booked-flight-ticket", "faBookedFlightTicket.docx", "faBookedFlightTicket", nil},
		{"fa-cancelled-flight-ticket", "faCancelledFlightTicket.docx", "faCancelledFlightTicket", nil},
		{"fa-traveled-back", "faTraveledBack.docx", "faTraveledBack", nil},
		{"fa-attend", "faAttend.docx", "faAttend", nil},
	}

	actions := make(map[string]Action, len(catalogue))
	for _, entry := range catalogue {
		actions[entry.slug] = Action{
			Slug:       entry.slug,
			Template:   entry.template,
			Automation: entry.automation,
			Fields:     entry.fields,
		}
	}
	return actions
}
