package repository

import (
	"context"
	"log/slog"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	"github.com/joseph-ayodele/branch-expenses/constants"
)

const (
	branchesTable = "branches"
	conceptsTable = "expense_concepts"
	receiptsTable = "receipts"
	expensesTable = "expenses"
)

// The tables below mirror the ent schema in db/ent/schema; TestTablesMatchEntSchema
// fails when the two drift apart.
var (
	// BranchesColumns holds the columns for the "branches" table.
	BranchesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 120, Unique: true},
	}
	BranchesTable = &schema.Table{
		Name:       branchesTable,
		Columns:    BranchesColumns,
		PrimaryKey: []*schema.Column{BranchesColumns[0]},
	}

	// ExpenseConceptsColumns holds the columns for the "expense_concepts" table.
	ExpenseConceptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "name", Type: field.TypeString, Size: 120, Unique: true},
		{Name: "active", Type: field.TypeBool, Default: true},
	}
	ExpenseConceptsTable = &schema.Table{
		Name:       conceptsTable,
		Columns:    ExpenseConceptsColumns,
		PrimaryKey: []*schema.Column{ExpenseConceptsColumns[0]},
	}

	// ReceiptsColumns holds the columns for the "receipts" table.
	ReceiptsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "kind", Type: field.TypeString, Size: 10},
		{Name: "url", Type: field.TypeString, Size: 500, Unique: true},
		{Name: "filename", Type: field.TypeString, Size: 255},
		{Name: "file_size", Type: field.TypeInt64},
		{Name: "content_hash", Type: field.TypeString, Size: 64},
		{Name: "created_at", Type: field.TypeTime},
	}
	ReceiptsTable = &schema.Table{
		Name:       receiptsTable,
		Columns:    ReceiptsColumns,
		PrimaryKey: []*schema.Column{ReceiptsColumns[0]},
	}

	// ExpensesColumns holds the columns for the "expenses" table.
	ExpensesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "branch_id", Type: field.TypeInt64},
		{Name: "concept_id", Type: field.TypeInt64},
		{Name: "amount", Type: field.TypeOther, SchemaType: map[string]string{dialect.Postgres: "numeric(12,2)", dialect.SQLite: "text"}},
		{Name: "payment_method", Type: field.TypeString, Size: constants.MaxPaymentMethodLen, Default: ""},
		{Name: "description", Type: field.TypeString, Size: constants.MaxDescriptionLen, Default: ""},
		{Name: "observations", Type: field.TypeString, Size: constants.MaxObservationsLen, Default: ""},
		{Name: "folio", Type: field.TypeString, Size: constants.MaxFolioLen, Nullable: true},
		{Name: "expense_date", Type: field.TypeTime, SchemaType: map[string]string{dialect.Postgres: "date"}},
		{Name: "status", Type: field.TypeString, Size: 10, Default: string(constants.ExpenseStatusActive)},
		{Name: "receipt_id", Type: field.TypeInt64, Nullable: true, Unique: true},
		{Name: "created_by", Type: field.TypeInt64},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	ExpensesTable = &schema.Table{
		Name:       expensesTable,
		Columns:    ExpensesColumns,
		PrimaryKey: []*schema.Column{ExpensesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "expenses_branches_expenses",
				Columns:    []*schema.Column{ExpensesColumns[1]},
				RefColumns: []*schema.Column{BranchesColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "expenses_expense_concepts_expenses",
				Columns:    []*schema.Column{ExpensesColumns[2]},
				RefColumns: []*schema.Column{ExpenseConceptsColumns[0]},
				OnDelete:   schema.NoAction,
			},
			{
				Symbol:     "expenses_receipts_expense",
				Columns:    []*schema.Column{ExpensesColumns[10]},
				RefColumns: []*schema.Column{ReceiptsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{
				Name:    "expense_branch_id_folio",
				Unique:  true,
				Columns: []*schema.Column{ExpensesColumns[1], ExpensesColumns[7]},
			},
			{
				Name:    "expense_expense_date",
				Unique:  false,
				Columns: []*schema.Column{ExpensesColumns[8]},
			},
		},
	}

	// Tables holds all the tables in the schema.
	Tables = []*schema.Table{
		BranchesTable,
		ExpenseConceptsTable,
		ReceiptsTable,
		ExpensesTable,
	}
)

func init() {
	ExpensesTable.ForeignKeys[0].RefTable = BranchesTable
	ExpensesTable.ForeignKeys[1].RefTable = ExpenseConceptsTable
	ExpensesTable.ForeignKeys[2].RefTable = ReceiptsTable
}

// Migrate creates or upgrades the tables to match the schema above.
func Migrate(ctx context.Context, drv *entsql.Driver, logger *slog.Logger) error {
	logger.Info("running schema migration", "dialect", drv.Dialect())
	m, err := schema.NewMigrate(drv)
	if err != nil {
		logger.Error("failed to prepare migration", "error", err)
		return err
	}
	if err := m.Create(ctx, Tables...); err != nil {
		logger.Error("schema migration failed", "error", err)
		return err
	}
	logger.Info("schema migration completed")
	return nil
}
