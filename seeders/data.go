package seeders

var servicesData = []struct {
	Code string
	Name string
}{
	{Code: "CAL", Name: "Calibration"},
	{Code: "PM", Name: "Preventive maintenance"},
	{Code: "CM", Name: "Corrective maintenance"},
	{Code: "INS", Name: "Installation"},
	{Code: "VAL", Name: "Validation"},
}

// brand -> model -> housings
var equipmentCatalogData = map[string]map[string][]string{
	"Mettler Toledo": {
		"XS205":  {"Draft shield", "Weighing pan"},
		"ICS425": {"Platform"},
	},
	"Thermo Fisher": {
		"Heratherm OGS60": {"Chamber"},
	},
	"Fluke": {
		"87V": {},
	},
}

var demoUsersData = []struct {
	Fio   string
	Email string
	Role  string
}{
	{Fio: "Administrator", Email: "admin@workorder.local", Role: "admin"},
	{Fio: "Field Technician", Email: "technician@workorder.local", Role: "technician"},
	{Fio: "Second Technician", Email: "technician2@workorder.local", Role: "technician"},
}

var demoDocumentsData = []struct {
	Brand        string
	Model        string
	DocumentType string
	FilePath     string
	MimeType     string
	Description  string
}{
	{Brand: "Mettler Toledo", DocumentType: "manual", FilePath: "documents/mettler/general-safety.pdf", MimeType: "application/pdf", Description: "Brand safety guide"},
	{Brand: "Mettler Toledo", Model: "XS205", DocumentType: "procedure", FilePath: "documents/mettler/xs205-calibration.pdf", MimeType: "application/pdf", Description: "XS205 calibration procedure"},
	{Brand: "Thermo Fisher", Model: "Heratherm OGS60", DocumentType: "certificate", FilePath: "documents/thermo/ogs60-reference.pdf", MimeType: "application/pdf", Description: "Reference probe certificate"},
}
