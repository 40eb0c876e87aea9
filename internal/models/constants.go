package models

const (
	MsgNoFile     = "No file uploaded."
	MsgNoPages    = "No pages found in the uploaded file."
	MsgNoEntities = "No entities extracted."

	PageCountFormat = "Number of pages: %d"
	EntitiesHeading = "Extracted entities:"

	PageContentVar = "page_content"
)

var (
	// ExtractionPromptTemplate is a go template; the only variable is page_content.
	ExtractionPromptTemplate = `
Extract Invoice Number, Order Number, Invoice Date, Due Date, Total Due, Service,
Rate/Price, name of organization, address, date,
Qty, Tax, Amount {{.page_content}}
Output: entity : type
`
)
