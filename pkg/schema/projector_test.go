package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hivesync/hivesync/pkg/parquetmeta/thriftschema"
)

func i32p(v int32) *int32                                           { return &v }
func typ(v thriftschema.Type) *thriftschema.Type                     { return &v }
func conv(v thriftschema.ConvertedType) *thriftschema.ConvertedType  { return &v }
func rep(v thriftschema.FieldRepetitionType) *thriftschema.FieldRepetitionType {
	return &v
}

// group returns an unannotated or annotated group SchemaElement.
func group(name string, numChildren int32, ct *thriftschema.ConvertedType) *thriftschema.SchemaElement {
	return &thriftschema.SchemaElement{
		Name:          name,
		NumChildren:   i32p(numChildren),
		ConvertedType: ct,
	}
}

func primitive(name string, t thriftschema.Type, r thriftschema.FieldRepetitionType, ct *thriftschema.ConvertedType) *thriftschema.SchemaElement {
	return &thriftschema.SchemaElement{
		Name:           name,
		Type:           typ(t),
		RepetitionType: rep(r),
		ConvertedType:  ct,
	}
}

func TestProjectPrimitiveSchema(t *testing.T) {
	// root -> optional int64 "id"
	elements := []*thriftschema.SchemaElement{
		group("root", 1, nil),
		primitive("id", thriftschema.TypeInt64, thriftschema.RepetitionOptional, nil),
	}

	cols, err := Project(elements)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "bigint", cols[0].Type)
}

func TestProjectListWithUnannotatedElement(t *testing.T) {
	// root -> repeated group "xs" (LIST)
	//            -> repeated group "xs_tuple" (1 child, named "<parent>_tuple")
	//                 -> required int32 "e"
	listConv := conv(thriftschema.ConvertedTypeList)
	elements := []*thriftschema.SchemaElement{
		group("root", 1, nil),
		group("xs", 1, listConv),
		{
			Name:           "xs_tuple",
			NumChildren:    i32p(1),
			RepetitionType: rep(thriftschema.RepetitionRepeated),
		},
		primitive("e", thriftschema.TypeInt32, thriftschema.RepetitionRequired, nil),
	}

	cols, err := Project(elements)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "xs", cols[0].Name)
	assert.Equal(t, "array<int>", cols[0].Type)
}

func TestProjectMapAnnotation(t *testing.T) {
	// root -> repeated group "m" (MAP)
	//            -> repeated group "key_value" (MAP_KEY_VALUE, 2 children)
	//                 -> required binary "key" (UTF8)
	//                 -> optional binary "value"
	mapConv := conv(thriftschema.ConvertedTypeMap)
	kvConv := conv(thriftschema.ConvertedTypeMapKeyValue)
	utf8 := conv(thriftschema.ConvertedTypeUTF8)
	elements := []*thriftschema.SchemaElement{
		group("root", 1, nil),
		group("m", 1, mapConv),
		group("key_value", 2, kvConv),
		primitive("key", thriftschema.TypeByteArray, thriftschema.RepetitionRequired, utf8),
		primitive("value", thriftschema.TypeByteArray, thriftschema.RepetitionOptional, nil),
	}

	cols, err := Project(elements)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "m", cols[0].Name)
	assert.Equal(t, "map<string,binary>", cols[0].Type)
}

func TestProjectListOfStructs(t *testing.T) {
	// root -> repeated group "items" (LIST)
	//            -> repeated group "array" (2 children: struct element itself)
	//                 -> required int32 "a"
	//                 -> optional binary "b" (UTF8)
	listConv := conv(thriftschema.ConvertedTypeList)
	elements := []*thriftschema.SchemaElement{
		group("root", 1, nil),
		group("items", 1, listConv),
		{
			Name:           "array",
			NumChildren:    i32p(2),
			RepetitionType: rep(thriftschema.RepetitionRepeated),
		},
		primitive("a", thriftschema.TypeInt32, thriftschema.RepetitionRequired, nil),
		primitive("b", thriftschema.TypeByteArray, thriftschema.RepetitionOptional, conv(thriftschema.ConvertedTypeUTF8)),
	}

	cols, err := Project(elements)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "array<struct<a:int,b:string>>", cols[0].Type)
}

func TestProjectDecimalAndStruct(t *testing.T) {
	// root -> optional fixed_len_byte_array "amount" (DECIMAL, precision=10, scale=2)
	//      -> optional group "addr" (unannotated struct, 1 child)
	//           -> optional binary "city" (UTF8)
	decimalConv := conv(thriftschema.ConvertedTypeDecimal)
	amount := primitive("amount", thriftschema.TypeFixedLenByteArray, thriftschema.RepetitionOptional, decimalConv)
	amount.Precision = i32p(10)
	amount.Scale = i32p(2)

	elements := []*thriftschema.SchemaElement{
		group("root", 2, nil),
		amount,
		{
			Name:           "addr",
			NumChildren:    i32p(1),
			RepetitionType: rep(thriftschema.RepetitionOptional),
		},
		primitive("city", thriftschema.TypeByteArray, thriftschema.RepetitionOptional, conv(thriftschema.ConvertedTypeUTF8)),
	}

	cols, err := Project(elements)
	require.NoError(t, err)
	require.Len(t, cols, 2)
	assert.Equal(t, "decimal(10,2)", cols[0].Type)
	assert.Equal(t, "struct<city:string>", cols[1].Type)
}

func TestProjectUnannotatedRepeatedPrimitive(t *testing.T) {
	// root -> repeated int32 "tags", with no LIST wrapper at all.
	elements := []*thriftschema.SchemaElement{
		group("root", 1, nil),
		primitive("tags", thriftschema.TypeInt32, thriftschema.RepetitionRepeated, nil),
	}

	cols, err := Project(elements)
	require.NoError(t, err)
	require.Len(t, cols, 1)
	assert.Equal(t, "array<int>", cols[0].Type)
}

func TestProjectEmptySchemaReturnsNoColumns(t *testing.T) {
	cols, err := Project(nil)
	require.NoError(t, err)
	assert.Empty(t, cols)
}

func TestProjectUnknownTypeIsAnError(t *testing.T) {
	elements := []*thriftschema.SchemaElement{
		group("root", 1, nil),
		primitive("mystery", thriftschema.Type(99), thriftschema.RepetitionRequired, nil),
	}
	_, err := Project(elements)
	require.Error(t, err)
	var perr *ProjectionError
	require.ErrorAs(t, err, &perr)
}
