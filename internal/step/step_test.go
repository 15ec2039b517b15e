package step

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFile = `ISO-10303-21;
HEADER;
FILE_DESCRIPTION(('ViewDefinition [CoordinationView]'),'2;1');
FILE_NAME('house.ifc','2024-03-01T10:00:00',(''),(''),'','','');
FILE_SCHEMA(('IFC4'));
ENDSEC;
DATA;
/* storey with a typed and a null attribute */
#1=IFCBUILDINGSTOREY('2N1qr7$0D0xeQyD9dpwr$H',$,'EG',$,$,#2,$,'Erdgeschoss',.ELEMENT.,0.);
#2=IFCLOCALPLACEMENT($,#3);
#3=IFCAXIS2PLACEMENT3D(#4,$,$);
#4=IFCCARTESIANPOINT((0.,0.,-2.5E-3));
#5=IFCPROPERTYSINGLEVALUE('Label',$,IFCLABEL('it''s'),$);
#6=(IFCLENGTHUNIT() IFCNAMEDUNIT(*,.LENGTHUNIT.) IFCSIUNIT(.MILLI.,.METRE.));
#7=IFCPIXELTEXTURE($,$,$,$,$,(1,2,3),"0FF");
ENDSEC;
END-ISO-10303-21;
`

func TestParse_SampleFile(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)

	assert.Equal(t, []string{"IFC4"}, f.Schemas)
	assert.Equal(t, "IFC4", f.Schema())
	assert.Contains(t, f.Header, "FILE_NAME")
	assert.Equal(t, 7, f.Len())

	storey, ok := f.Get(1)
	require.True(t, ok)
	assert.Equal(t, "IFCBUILDINGSTOREY", storey.Type)
	assert.Equal(t, 9, storey.Line)
	require.Len(t, storey.Args, 10)

	name, ok := storey.Arg(2).AsString()
	assert.True(t, ok)
	assert.Equal(t, "EG", name)
	assert.True(t, storey.Arg(1).IsNull())

	ref, ok := storey.Arg(5).AsRef()
	assert.True(t, ok)
	assert.Equal(t, int64(2), ref)

	enum, ok := storey.Arg(8).AsEnum()
	assert.True(t, ok)
	assert.Equal(t, "ELEMENT", enum)

	elev, ok := storey.Arg(9).AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 0.0, elev)

	assert.True(t, storey.Arg(42).IsNull(), "out of range args read as null")
}

func TestParse_ValueKinds(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)

	point, _ := f.Get(4)
	coords, ok := point.Arg(0).AsList()
	require.True(t, ok)
	require.Len(t, coords, 3)
	z, ok := coords[2].AsFloat()
	assert.True(t, ok)
	assert.InDelta(t, -0.0025, z, 1e-12)

	prop, _ := f.Get(5)
	typed := prop.Arg(2)
	assert.Equal(t, KindTyped, typed.Kind)
	assert.Equal(t, "IFCLABEL", typed.Str)
	label, ok := typed.AsString()
	assert.True(t, ok)
	assert.Equal(t, "it's", label)

	tex, _ := f.Get(7)
	ints, ok := tex.Arg(5).AsList()
	require.True(t, ok)
	n, ok := ints[1].AsFloat()
	assert.True(t, ok)
	assert.Equal(t, 2.0, n)
	assert.Equal(t, KindInteger, ints[1].Kind)
	assert.Equal(t, KindBinary, tex.Arg(6).Kind)
	assert.Equal(t, "0FF", tex.Arg(6).Str)
}

func TestParse_ComplexInstance(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)

	unit, ok := f.Get(6)
	require.True(t, ok)
	require.Len(t, unit.Parts, 3)
	assert.Equal(t, "IFCLENGTHUNIT", unit.Type)
	assert.Equal(t, "IFCSIUNIT", unit.Parts[2].Type)
	assert.Equal(t, KindDerived, unit.Parts[1].Args[0].Kind)
}

func TestFile_ByType(t *testing.T) {
	f, err := Parse(strings.NewReader(sampleFile))
	require.NoError(t, err)

	got := f.ByType("IfcCartesianPoint")
	require.Len(t, got, 1)
	assert.Equal(t, int64(4), got[0].ID)
	assert.Empty(t, f.ByType("IFCSPACE"))

	ids := make([]int64, 0, f.Len())
	for _, in := range f.Instances() {
		ids = append(ids, in.ID)
	}
	assert.Equal(t, []int64{1, 2, 3, 4, 5, 6, 7}, ids)
}

func TestParse_Errors(t *testing.T) {
	header := "ISO-10303-21;\nHEADER;\nFILE_SCHEMA(('IFC4'));\nENDSEC;\n"

	tests := []struct {
		name     string
		input    string
		wantLine int
		wantMsg  string
	}{
		{"missing magic", "HEADER;\n", 1, "expected ISO-10303-21"},
		{"duplicate id", header + "DATA;\n#1=IFCWALL();\n#1=IFCSLAB();\nENDSEC;\n", 7, "duplicate instance #1"},
		{"unterminated string", header + "DATA;\n#1=IFCWALL('abc);\n", 6, "unterminated string"},
		{"missing semicolon", header + "DATA;\n#1=IFCWALL()\n#2=IFCSLAB();\nENDSEC;\n", 7, "expected ';'"},
		{"bad parameter", header + "DATA;\n#1=IFCWALL(=);\nENDSEC;\n", 6, "expected parameter"},
		{"truncated data", header + "DATA;\n#1=IFCWALL();\n", 7, "expected instance name or ENDSEC"},
		{"unterminated comment", header + "/* never closed\nDATA;\n", 5, "unterminated comment"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)

			var syn *SyntaxError
			require.True(t, errors.As(err, &syn), "error %v is not a *SyntaxError", err)
			assert.Equal(t, tt.wantLine, syn.Line)
			assert.Contains(t, syn.Msg, tt.wantMsg)
		})
	}
}

func TestParse_MissingTrailer(t *testing.T) {
	input := "ISO-10303-21;\nHEADER;\nENDSEC;\nDATA;\n#10=IFCWALL($);\nENDSEC;\n"

	f, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, f.Len())
	assert.Equal(t, "", f.Schema())
}

func TestLexer_Tokens(t *testing.T) {
	l := NewLexer(strings.NewReader("#12 = ifcWall(1.,-3,'a''b',.T.,$,*);"))

	want := []struct {
		typ   TokenType
		value string
	}{
		{TokenRef, "12"},
		{TokenEquals, "="},
		{TokenKeyword, "IFCWALL"},
		{TokenLParen, "("},
		{TokenReal, "1."},
		{TokenComma, ","},
		{TokenInteger, "-3"},
		{TokenComma, ","},
		{TokenString, "a''b"},
		{TokenComma, ","},
		{TokenEnum, "T"},
		{TokenComma, ","},
		{TokenNull, "$"},
		{TokenComma, ","},
		{TokenDerived, "*"},
		{TokenRParen, ")"},
		{TokenSemicolon, ";"},
		{TokenEOF, ""},
	}

	for i, w := range want {
		tok, err := l.NextToken()
		require.NoError(t, err)
		assert.Equal(t, w.typ, tok.Type, "token %d", i)
		assert.Equal(t, w.value, string(tok.Value), "token %d", i)
	}
}

func TestDecodeString(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"plain", "plain"},
		{"it''s", "it's"},
		{`back\\slash`, `back\slash`},
		{`Gr\X\FCn`, "Grün"},
		{`\X2\00E400F6\X0\`, "äö"},
		{`\X2\D83DDE00\X0\`, "\U0001F600"},
		{`\X4\0001F600\X0\`, "\U0001F600"},
		{`\S\d`, "ä"},
		{`\PA\text`, "text"},
		{`\X2\00E4`, `\X2\00E4`},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeString(tt.raw))
		})
	}
}

func TestValue_String(t *testing.T) {
	v := Value{Kind: KindList, List: []Value{
		{Kind: KindRef, Ref: 3},
		{Kind: KindReal, Real: 2},
		{Kind: KindString, Str: "a'b"},
		{Kind: KindTyped, Str: "IFCLABEL", List: []Value{{Kind: KindString, Str: "x"}}},
		Null,
	}}
	assert.Equal(t, "(#3,2.,'a''b',IFCLABEL('x'),$)", v.String())
}
