package server

import "html/template"

const indexTemplateName = "index"

var indexTemplate = template.Must(template.New(indexTemplateName).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Invoice Entity Extractor</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 18rem; padding: 1.5rem; background: #f0f2f6; min-height: 100vh; }
main { flex: 1; padding: 1.5rem 3rem; }
pre { white-space: pre-wrap; background: #fafafa; padding: .75rem; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ddd; padding: .35rem .6rem; text-align: left; }
.error { color: #b00020; }
</style>
</head>
<body>
<aside>
<form action="/extract" method="post" enctype="multipart/form-data">
<label for="file">Upload a PDF file</label><br>
<input id="file" type="file" name="file" accept=".pdf,application/pdf"><br><br>
<button type="submit">Extract</button>
</form>
{{if .Filename}}<p>{{.Filename}}</p>{{end}}
</aside>
<main>
<h1>Invoice Entity Extractor</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
{{.Body}}
</main>
</body>
</html>
`))

type pageData struct {
	Filename string
	Error    string
	Body     template.HTML
}
