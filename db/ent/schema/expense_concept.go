package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// ExpenseConcept maps to the expense_concepts catalog (conceptos de gasto).
type ExpenseConcept struct {
	ent.Schema
}

func (ExpenseConcept) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "expense_concepts"},
	}
}

func (ExpenseConcept) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			Immutable(),
		field.String("name").
			NotEmpty().
			MaxLen(120).
			Unique(),
		field.Bool("active").
			Default(true),
	}
}

func (ExpenseConcept) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("expenses", Expense.Type),
	}
}
