package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"

	"github.com/joseph-ayodele/branch-expenses/constants"
	"github.com/joseph-ayodele/branch-expenses/db/ent/schema/utils"
)

// Receipt is an uploaded comprobante file. Rows are never deleted on replace.
type Receipt struct {
	ent.Schema
}

func (Receipt) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "receipts"},
	}
}

func (Receipt) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("id").
			Immutable(),
		field.String("kind").
			MaxLen(10).
			Validate(utils.EnumValidator(string(constants.ReceiptKindImage), string(constants.ReceiptKindPDF))).
			Immutable(),
		field.String("url").
			NotEmpty().
			MaxLen(500).
			Unique().
			Immutable(),
		field.String("filename").
			MaxLen(255).
			Immutable(),
		field.Int64("file_size").
			NonNegative().
			Immutable(),
		field.String("content_hash").
			MaxLen(64).
			Immutable(),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}

func (Receipt) Edges() []ent.Edge {
	return []ent.Edge{
		// ONE receipt -> at most ONE expense
		edge.To("expense", Expense.Type).
			Unique(),
	}
}
