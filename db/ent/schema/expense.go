package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/db/ent/schema/utils"
)

// Expense is a gasto recorded against a branch and a concept.
type Expense struct {
	ent.Schema
}

func (Expense) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "expenses"},
	}
}

func (Expense) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			Immutable(),
		// FK fields backing the edges below.
		field.Int64("branch_id"),
		field.Int64("concept_id"),
		// text on sqlite keeps the cents exact
		field.Other("amount", decimal.Decimal{}).
			SchemaType(map[string]string{
				dialect.Postgres: "numeric(12,2)",
				dialect.SQLite:   "text",
			}),
		field.String("payment_method").
			MaxLen(constants.MaxPaymentMethodLen).
			Default(""),
		field.String("description").
			MaxLen(constants.MaxDescriptionLen).
			Default(""),
		field.String("observations").
			MaxLen(constants.MaxObservationsLen).
			Default(""),
		field.String("folio").
			MaxLen(constants.MaxFolioLen).
			Optional().Nillable(),
		field.Time("expense_date").
			SchemaType(map[string]string{dialect.Postgres: "date"}),
		field.String("status").
			MaxLen(10).
			Default(string(constants.ExpenseStatusActive)).
			Validate(utils.EnumValidator(string(constants.ExpenseStatusActive), string(constants.ExpenseStatusVoid))),
		field.Int64("receipt_id").
			Optional().Nillable().
			Unique(),
		field.Int64("created_by").
			Positive().
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (Expense) Edges() []ent.Edge {
	return []ent.Edge{
		// MANY expenses -> ONE branch (FK: expenses.branch_id)
		edge.From("branch", Branch.Type).
			Ref("expenses").
			Field("branch_id").
			Required().
			Unique(),
		// MANY expenses -> ONE concept (FK: expenses.concept_id)
		edge.From("concept", ExpenseConcept.Type).
			Ref("expenses").
			Field("concept_id").
			Required().
			Unique(),
		// OPTIONAL: ONE expense -> ONE receipt (FK: expenses.receipt_id)
		edge.From("receipt", Receipt.Type).
			Ref("expense").
			Field("receipt_id").
			Unique(),
	}
}

func (Expense) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("branch_id", "folio").
			Unique(),
		index.Fields("expense_date"),
	}
}
