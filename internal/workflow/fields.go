package workflow

// Field catalogues for the extract tool, keyed by document type. Types
// outside the catalogue fall back to the generic template.
var fieldCatalogues = map[string][]string{
	"passport": {
		"full_name",
		"date_of_birth",
		"nationality",
		"passport_number",
		"issue_date",
		"expiry_date",
		"issuing_country",
	},
	"driver's license": {
		"full_name",
		"date_of_birth",
		"address",
		"license_number",
		"license_class",
		"issue_date",
		"expiry_date",
	},
	"id card": {
		"full_name",
		"date_of_birth",
		"id_number",
		"nationality",
		"expiry_date",
	},
	"birth certificate": {
		"full_name",
		"date_of_birth",
		"place_of_birth",
		"parent_names",
		"registration_number",
	},
}

var genericFields = []string{
	"full_name",
	"date_of_birth",
	"document_number",
	"expiry_date",
	"issuing_country",
}

// FieldCatalogue returns the extraction template for a document type.
func FieldCatalogue(documentType string) []string {
	if fields, ok := fieldCatalogues[documentType]; ok {
		return fields
	}
	return genericFields
}
