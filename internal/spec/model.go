package spec

import "encoding/json"

// View model handed to the emitter templates.

type Location string

const (
	LocationPath     Location = "path"
	LocationQuery    Location = "query"
	LocationHeader   Location = "header"
	LocationFormData Location = "formData"
	LocationBody     Location = "body"
)

// Dialect identifies which adapter produced a view model.
type Dialect string

const (
	Swagger12 Dialect = "1.2"
	Swagger20 Dialect = "2.0"
)

type ViewModel struct {
	Version     Dialect
	IsNode      bool
	IsSecure    bool
	Description string
	ModuleName  string
	ClassName   string
	Domain      string // scheme://host/basePath, or "" when incomplete
	Methods     []*Operation
	DataTypes   []*DataType // 2.0 only
	Extra       map[string]any
}

type Operation struct {
	Path       string
	ClassName  string
	MethodName string
	Method     string // upper-case HTTP verb
	IsGET      bool
	Summary    string
	IsSecure   bool
	Parameters []*Parameter
	Response   *Response // nil when no 200/201/204/default entry exists

	pointer string
}

type Parameter struct {
	Name          string
	CamelCaseName string
	In            Location
	Required      bool
	Description   string
	IsSingleton   bool
	Singleton     any
	IsPatternType bool
	// Schema is the parameter object the descriptor is resolved from.
	Schema *Object `json:"-"`
}

func (p *Parameter) IsBodyParameter() bool   { return p.In == LocationBody }
func (p *Parameter) IsPathParameter() bool   { return p.In == LocationPath }
func (p *Parameter) IsQueryParameter() bool  { return p.In == LocationQuery }
func (p *Parameter) IsHeaderParameter() bool { return p.In == LocationHeader }
func (p *Parameter) IsFormParameter() bool   { return p.In == LocationFormData }

// TypeDescriptor resolves the parameter type on demand.
func (p *Parameter) TypeDescriptor() string { return ResolveType(p.Schema) }

type Response struct {
	StatusCode string
	IsDefault  bool
	Schema     *Object
}

// TypeDescriptor resolves the response type on demand.
func (r *Response) TypeDescriptor() string { return ResolveResponse(r.Schema) }

type DataType struct {
	Name        string
	Description string
	Properties  []*Property
}

type Property struct {
	Name        string
	Required    bool
	Description string
	Schema      *Object
}

// TypeDescriptor resolves the property type on demand.
func (p *Property) TypeDescriptor() string { return ResolveType(p.Schema) }

// TemplateData flattens the root into a map with Extra merged over it, so
// caller-supplied keys override computed ones.
func (vm *ViewModel) TemplateData() map[string]any {
	data := map[string]any{
		"Version":     string(vm.Version),
		"IsNode":      vm.IsNode,
		"IsSecure":    vm.IsSecure,
		"Description": vm.Description,
		"ModuleName":  vm.ModuleName,
		"ClassName":   vm.ClassName,
		"Domain":      vm.Domain,
		"Methods":     vm.Methods,
		"DataTypes":   vm.DataTypes,
	}
	for k, v := range vm.Extra {
		data[k] = v
	}
	return data
}

// The JSON forms carry the resolved descriptor so dumped models show what
// the templates will see.

func (p *Parameter) MarshalJSON() ([]byte, error) {
	type alias Parameter
	return json.Marshal(struct {
		*alias
		Type string
	}{(*alias)(p), p.TypeDescriptor()})
}

func (r *Response) MarshalJSON() ([]byte, error) {
	type alias Response
	return json.Marshal(struct {
		*alias
		Type string
	}{(*alias)(r), r.TypeDescriptor()})
}

func (p *Property) MarshalJSON() ([]byte, error) {
	type alias Property
	return json.Marshal(struct {
		*alias
		Type string
	}{(*alias)(p), p.TypeDescriptor()})
}
