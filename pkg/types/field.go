package types

// Field identifies one of the provenance-tracked fields of a project record.
type Field string

const (
	// FieldName is the display name of the project.
	FieldName Field = "name"

	// FieldSource is the canonical source repository URL.
	FieldSource Field = "source"

	// FieldModrinth is the Modrinth project URL.
	FieldModrinth Field = "modrinth"

	// FieldCurseForge is the CurseForge project URL.
	FieldCurseForge Field = "curseforge"
)

// String returns the string representation of a field.
func (f Field) String() string {
	return string(f)
}

// Fields returns all tracked fields in declaration order.
func Fields() []Field {
	return []Field{FieldName, FieldSource, FieldModrinth, FieldCurseForge}
}
