package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
)

// Branch maps to the branches catalog (sucursales).
type Branch struct {
	ent.Schema
}

func (Branch) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "branches"},
	}
}

func (Branch) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			Immutable(),
		field.String("name").
			NotEmpty().
			MaxLen(120).
			Unique(),
	}
}

func (Branch) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("expenses", Expense.Type),
	}
}
