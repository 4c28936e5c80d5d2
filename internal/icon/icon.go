package icon

// SystemUser owns every standard icon unless configured otherwise.
const SystemUser = "Administrator"

// Icon is a launcher shortcut to a module or link.
type Icon struct {
	ID         string `json:"id"`
	ModuleName string `json:"module_name"`
	Label      string `json:"label"`
	Link       string `json:"link,omitempty"`
	Route      string `json:"route,omitempty"`
	Type       string `json:"type,omitempty"`
	Icon       string `json:"icon,omitempty"`
	Color      string `json:"color,omitempty"`
	Reverse    bool   `json:"reverse"`
	DocType    string `json:"doctype,omitempty"`
	Idx        int    `json:"idx"`
	Hidden     bool   `json:"hidden"`
	ForceShow  bool   `json:"force_show"`
	Custom     bool   `json:"custom"`
	Standard   bool   `json:"standard"`
	Owner      string `json:"owner"`
	App        string `json:"app,omitempty"`

	// HiddenByCatalog reports that the shared catalog forced this icon hidden.
	HiddenByCatalog bool `json:"hidden_by_catalog"`
}

// Filter selects icons in a store lookup. Zero-valued fields do not filter.
type Filter struct {
	Standard   *bool
	ModuleName string
	Owner      string
	App        string
	Link       string
}

// StandardOnly matches catalog entries.
func StandardOnly() Filter {
	t := true
	return Filter{Standard: &t}
}

// OwnedBy matches the user-owned icons of user.
func OwnedBy(user string) Filter {
	f := false
	return Filter{Standard: &f, Owner: user}
}

// Field names a mutable column of an icon record.
type Field string

const (
	FieldLabel     Field = "label"
	FieldLink      Field = "link"
	FieldRoute     Field = "route"
	FieldType      Field = "type"
	FieldIcon      Field = "icon"
	FieldColor     Field = "color"
	FieldReverse   Field = "reverse"
	FieldDocType   Field = "doctype"
	FieldIdx       Field = "idx"
	FieldHidden    Field = "hidden"
	FieldForceShow Field = "force_show"
)

// Fields is a partial update. Values must be string, int or bool matching
// the column type.
type Fields map[Field]any

// BootInfo is the desktop summary sent to a client at session start.
type BootInfo struct {
	User    string   `json:"user"`
	Modules []string `json:"modules"`
	Hidden  []string `json:"hidden"`
}
