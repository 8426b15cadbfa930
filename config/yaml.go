package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Bluechip23/Bluejs/log"
	"gopkg.in/yaml.v2"
)

// WriteYamlWithComments writes config as YAML, with each top level key preceded by its field's `comment` tag.
// Existing files are left alone.
func WriteYamlWithComments(config interface{}, header string, filename string, logger *log.Logger) error {
	fileData, err := addCommentsToYaml(config, header)
	if err != nil {
		return err
	}

	return SafeWrite(filename, fileData, logger)
}

func addCommentsToYaml(config interface{}, header string) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, err
	}

	// Handle both struct and pointer to struct
	v := reflect.ValueOf(config)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct, got %s", v.Kind())
	}

	comments := make(map[string]string)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		key := yamlKey(field)
		comment := field.Tag.Get("comment")
		if key != "" && comment != "" {
			comments[key] = comment
		}
	}

	var result strings.Builder

	// Add the custom header at the beginning
	if header != "" {
		result.WriteString("# " + header + "\n")
	}

	lines := strings.SplitAfter(string(data), "\n")
	for _, line := range lines {
		// Only top level keys carry comments, nested ones are indented.
		if key, _, found := strings.Cut(line, ":"); found && !strings.HasPrefix(line, " ") && !strings.HasPrefix(line, "-") {
			if comment, ok := comments[key]; ok {
				result.WriteString("\n# " + comment + "\n")
			}
		}
		result.WriteString(line)
	}

	return []byte(result.String()), nil
}

// yamlKey mirrors how yaml.v2 names a field: the tag's name if there is one, else the lower cased field name.
func yamlKey(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}

	name, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return strings.ToLower(field.Name)
	default:
		return name
	}
}
