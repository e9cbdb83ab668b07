package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sparkify/internal/schema"
)

func TestMapType(t *testing.T) {
	t.Parallel()

	for kind, want := range map[string]string{
		schema.TypeKey:       "NVARCHAR(256)",
		schema.TypeText:      "NVARCHAR(MAX)",
		schema.TypeInt:       "BIGINT",
		schema.TypeBigint:    "BIGINT",
		schema.TypeFloat:     "FLOAT",
		schema.TypeTimestamp: "DATETIME2(3)",
		schema.TypeIdentity:  "BIGINT IDENTITY(1,1)",
		" Boolean ":          "BIT",
		"decimal":            "DECIMAL(38, 10)",
		"uuid":               "UNIQUEIDENTIFIER",
		"":                   "NVARCHAR(MAX)",
	} {
		assert.Equal(t, want, MapType(kind), kind)
	}
}
