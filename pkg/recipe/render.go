package recipe

import (
	"bytes"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const dockerfileTemplate = `FROM {{ .BuilderImage }} AS build

WORKDIR /src
COPY go.mod go.sum ./
RUN go mod download
COPY . .
RUN CGO_ENABLED=0 go build -o /out/{{ .Name }} ./cmd/{{ .Name }}

FROM {{ .RuntimeImage }}

RUN apt-get update && \
    apt-get install -y --no-install-recommends{{ range .Packages }} {{ . }}{{ end }} && \
    rm -rf /var/lib/apt/lists/*
{{- if .CloudSDK }}
RUN curl -fsSL https://packages.cloud.google.com/apt/doc/apt-key.gpg -o /usr/share/keyrings/cloud.google.asc && \
    echo "deb [signed-by=/usr/share/keyrings/cloud.google.asc] https://packages.cloud.google.com/apt cloud-sdk main" > /etc/apt/sources.list.d/google-cloud-sdk.list && \
    apt-get update && \
    apt-get install -y --no-install-recommends google-cloud-cli{{ range .SDKComponents }} {{ . }}{{ end }} && \
    rm -rf /var/lib/apt/lists/*
{{- end }}

COPY --from=build /out/{{ .Name }} /usr/local/bin/{{ .Name }}
{{- range .Env }}
ENV {{ .Name }}={{ .Value }}
{{- end }}

EXPOSE {{ .Port }}
ENTRYPOINT [{{ range $i, $arg := .Entrypoint }}{{ if $i }}, {{ end }}{{ $arg | quote }}{{ end }}]
`

// Render writes the Dockerfile for the recipe.
func (r *Recipe) Render(w io.Writer) error {
	tpl, err := template.New("Dockerfile").Funcs(sprig.TxtFuncMap()).Parse(dockerfileTemplate)
	if err != nil {
		return err
	}

	var rendered bytes.Buffer
	err = tpl.Execute(&rendered, r)
	if err != nil {
		return err
	}

	_, err = w.Write(rendered.Bytes())
	return err
}

func (r *Recipe) RenderString() (string, error) {
	var buf bytes.Buffer
	err := r.Render(&buf)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
