package rewrite

import (
	"strings"
	"text/template"
)

// placeholder marks the spot where the original body goes.
const placeholder = "spanweaveOriginalBody"

var templates = template.Must(template.New("rewrite").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(rewriteTemplates))

const rewriteTemplates = `
{{define "start"}}{{.SpanCtx}}, {{.Span}} := {{.Pkg.Tracer}}.Start({{.StartCtx}}, {{.SpanName}}, {{.Pkg.Trace}}.WithAttributes(
{{- range $i, $a := .Attrs}}{{if $i}}, {{end}}{{$.Pkg.Attribute}}.String({{$a.Key}}, {{$a.Value}}){{end -}}
))
{{end}}

{{define "recover"}}defer func() {
	if {{.R}} := recover(); {{.R}} != nil {
		{{.Err}}, {{.OK}} := {{.R}}.(error)
		if !{{.OK}} {
			{{.Err}} = {{.Pkg.Fmt}}.Errorf("panic: %v", {{.R}})
		}
		{{.Span}}.RecordError({{.Err}})
		{{.Span}}.SetStatus({{.Pkg.Codes}}.Error, {{.Err}}.Error())
		{{- if .EndOnPanic}}
		{{.Span}}.End()
		{{- end}}
		panic({{.R}})
	}
}()
{{end}}

{{define "call"}}func({{.Param}}) {{.Results}} {{.Body}}({{.Arg}}){{end}}

{{define "plain"}}
{{- template "start" .}}
defer {{.Span}}.End()
{{template "recover" .}}
{{- if .Vars}}{{join .Vars ", "}} := {{end}}{{template "call" .}}
{{- if .ErrVar}}
if {{.ErrVar}} != nil {
	{{.Span}}.RecordError({{.ErrVar}})
	{{.Span}}.SetStatus({{.Pkg.Codes}}.Error, {{.ErrVar}}.Error())
	return {{join .Vars ", "}}
}
{{- end}}
{{.Span}}.SetStatus({{.Pkg.Codes}}.Ok, "")
{{- if .Vars}}
return {{join .Vars ", "}}
{{- end}}
{{end}}

{{define "async"}}
{{- template "start" .}}
{{template "recover" .}}
{{- join .Vars ", "}} := {{template "call" .}}
{{- if .ErrVar}}
if {{.ErrVar}} != nil {
	{{.Span}}.RecordError({{.ErrVar}})
	{{.Span}}.SetStatus({{.Pkg.Codes}}.Error, {{.ErrVar}}.Error())
	{{.Span}}.End()
	return {{join .Vars ", "}}
}
{{- end}}
if {{.Chan}} == nil {
	{{.Span}}.SetStatus({{.Pkg.Codes}}.Ok, "")
	{{.Span}}.End()
	return {{join .Vars ", "}}
}
{{.Out}} := make(chan {{.Elem}}, cap({{.Chan}}))
go func() {
	defer close({{.Out}})
	defer {{.Span}}.End()
	{{- if .ElemError}}
	{{.Failed}} := false
	{{- end}}
	for {{.V}} := range {{.Chan}} {
		{{- if .ElemError}}
		if {{.V}} != nil {
			{{.Failed}} = true
			{{.Span}}.RecordError({{.V}})
			{{.Span}}.SetStatus({{.Pkg.Codes}}.Error, {{.V}}.Error())
		}
		{{- end}}
		{{.Out}} <- {{.V}}
	}
	{{- if .ElemError}}
	if !{{.Failed}} {
		{{.Span}}.SetStatus({{.Pkg.Codes}}.Ok, "")
	}
	{{- else}}
	{{.Span}}.SetStatus({{.Pkg.Codes}}.Ok, "")
	{{- end}}
}()
return {{.Out}}{{if .ErrVar}}, {{.ErrVar}}{{end}}
{{end}}

{{define "generator"}}
{{- .Seq}} := {{template "call" .}}
if {{.Seq}} == nil {
	return {{.Seq}}
}
return func({{.Yield}} {{.YieldType}}) {
	{{template "start" .}}
	defer {{.Span}}.End()
	{{template "recover" .}}
	{{- if .Failed}}
	{{.Failed}} := false
	{{- end}}
	for {{join .RangeVars ", "}} := range {{.Seq}} {
		{{- if .Failed}}
		if {{.V}} != nil {
			{{.Failed}} = true
			{{.Span}}.RecordError({{.V}})
			{{.Span}}.SetStatus({{.Pkg.Codes}}.Error, {{.V}}.Error())
		}
		{{- end}}
		if !{{.Yield}}({{join .RangeVars ", "}}) {
			return
		}
	}
	{{- if .Failed}}
	if !{{.Failed}} {
		{{.Span}}.SetStatus({{.Pkg.Codes}}.Ok, "")
	}
	{{- else}}
	{{.Span}}.SetStatus({{.Pkg.Codes}}.Ok, "")
	{{- end}}
}
{{end}}
`
