package vars

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

const varsSchema = `
{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "prod_project_id": {"type": "string"},
    "staging_project_id": {"type": "string"},
    "cicd_runner_project_id": {"type": "string"},
    "host_connection_name": {"type": "string"},
    "repository_name": {"type": "string"},
    "repository_owner": {"type": "string"},
    "github_app_installation_id": {"type": "string"},
    "github_pat_secret_id": {"type": "string"},
    "connection_exists": {"type": "boolean"},
    "region": {"type": "string"},
    "cloud_run_app_sa_name": {"type": "string"},
    "telemetry_bigquery_dataset_id": {"type": "string"},
    "telemetry_sink_name": {"type": "string"},
    "telemetry_logs_filter": {"type": "string"},
    "feedback_bigquery_dataset_id": {"type": "string"},
    "feedback_sink_name": {"type": "string"},
    "feedback_logs_filter": {"type": "string"},
    "cicd_runner_sa_name": {"type": "string"},
    "suffix_bucket_name_load_test_results": {"type": "string"}
  }
}
`

// LoadYAML reads and parses the YAML convenience format.
func LoadYAML(path string) (*VarSet, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read file: %s", err)
	}
	return ParseYAML(data)
}

// ParseYAML parses the variable set from YAML, schema-checking the document
// first so shape errors come back as a readable list.
func ParseYAML(data []byte) (*VarSet, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("cannot parse yaml: %s", err)
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("cannot marshal values: %s", err)
	}

	schemaLoader := gojsonschema.NewStringLoader(varsSchema)
	documentLoader := gojsonschema.NewBytesLoader(rawJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return nil, fmt.Errorf("cannot validate json schema %s", err)
	}

	if !result.Valid() {
		errs := strings.Builder{}
		for _, desc := range result.Errors() {
			errs.WriteString(fmt.Sprintf("- %s\n", desc))
		}
		return nil, fmt.Errorf("schema validation failed: \n%s", errs.String())
	}

	v := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(v); err != nil {
		return nil, fmt.Errorf("cannot decode yaml: %s", err)
	}

	return v, nil
}
