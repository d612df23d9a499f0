package constants

// Module identifies an area of the application guarded by permissions.
type Module string

// Action identifies an operation inside a module.
type Action string

const (
	ModuleExpenses Module = "gastos"
	ModuleCatalogs Module = "catalogos"
)

const (
	ActionView   Action = "ver"
	ActionCreate Action = "crear"
	ActionEdit   Action = "editar"
	ActionDelete Action = "eliminar"
	ActionExport Action = "exportar"
)

// Permission is a (module, action) pair.
type Permission struct {
	Module Module
	Action Action
}

// String renders the permission as "module:action", the format used in grant files.
func (p Permission) String() string {
	return string(p.Module) + ":" + string(p.Action)
}

// PermissionDescriptions is the static table of every known permission.
var PermissionDescriptions = map[Permission]string{
	{ModuleExpenses, ActionView}:   "Consultar gastos y reportes de gastos",
	{ModuleExpenses, ActionCreate}: "Registrar gastos",
	{ModuleExpenses, ActionEdit}:   "Modificar o anular gastos",
	{ModuleExpenses, ActionDelete}: "Eliminar gastos",
	{ModuleExpenses, ActionExport}: "Exportar reportes de gastos",
	{ModuleCatalogs, ActionView}:   "Consultar sucursales y conceptos de gasto",
	{ModuleCatalogs, ActionCreate}: "Registrar sucursales y conceptos de gasto",
}

// Describe returns the human description of a permission, or "" when unknown.
func Describe(m Module, a Action) string {
	return PermissionDescriptions[Permission{m, a}]
}
