package models

// Page is the text of one PDF page. Number is 1-based.
type Page struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

// EntityRow is one line of model output split on the delimiter.
type EntityRow []string

func (r EntityRow) Label() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

func (r EntityRow) Value() string {
	if len(r) < 2 {
		return ""
	}
	return r[1]
}

type Status string

const (
	StatusNoFile     Status = "no_file"
	StatusNoPages    Status = "no_pages"
	StatusNoEntities Status = "no_entities"
	StatusRendered   Status = "rendered"
)

// Report is everything the presenter needs for one request.
type Report struct {
	Status   Status      `json:"status"`
	Message  string      `json:"message,omitempty"`
	Filename string      `json:"filename,omitempty"`
	Pages    []Page      `json:"pages"`
	Raw      string      `json:"raw,omitempty"`
	Entities []EntityRow `json:"entities"`
}

func (r *Report) PageCount() int {
	return len(r.Pages)
}
