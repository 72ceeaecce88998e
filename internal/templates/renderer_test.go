package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/toyz/rtgen/internal/errors"
	"github.com/toyz/rtgen/internal/utils"
)

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Warn(format string, args ...interface{}) {
	l.messages = append(l.messages, format)
}

// archiveSource turns every file of a txtar archive except "want" into a template
func archiveSource(t *testing.T, data string) (StaticSource, string) {
	t.Helper()
	ar := txtar.Parse([]byte(data))
	source := make(StaticSource)
	want := ""
	for _, f := range ar.Files {
		if f.Name == "want" {
			want = string(f.Data)
			continue
		}
		source[f.Name] = string(f.Data)
	}
	require.NotEmpty(t, source)
	return source, want
}

const nestedArchive = `
-- class --
public class $Name$
{

$Methods$}
-- method --
    public $Return$ $Name$($Arguments$);
-- want --
public class Channel
{

    public long GetRate();
    public void SetRate(long value);
}
`

type fakeMethod struct {
	name, ret, args string
}

func TestRenderer_NestedRendering(t *testing.T) {
	source, want := archiveSource(t, nestedArchive)
	r := NewRenderer(source, nil)
	ctx := context.Background()

	methods := []fakeMethod{
		{"GetRate", "long", ""},
		{"SetRate", "void", "long value"},
	}

	var class Scope
	class = Bind("class", "Channel", func(name string, variable string) (string, bool) {
		switch variable {
		case "Name":
			return name, true
		case "Methods":
			var b strings.Builder
			for _, m := range methods {
				chain := NewChain(class).Push(Bind("method", m, func(m fakeMethod, variable string) (string, bool) {
					switch variable {
					case "Name":
						return m.name, true
					case "Return":
						return m.ret, true
					case "Arguments":
						return m.args, true
					}
					return "", false
				}))
				out, err := r.RenderString(ctx, "method", chain)
				require.NoError(t, err)
				b.WriteString(out)
			}
			return b.String(), true
		}
		return "", false
	})

	got, err := r.RenderString(ctx, "class", NewChain(class))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRenderer_NarrowScopeShadows(t *testing.T) {
	r := NewRenderer(StaticSource{"t": "$Arguments$|$Name$\n"}, nil)

	wide := NewValues("method", map[string]string{"Arguments": "int count", "Name": "Read"})
	narrow := NewValues("reader", map[string]string{"Arguments": "int count, nuint startIndex = 0"})

	got, err := r.RenderString(context.Background(), "t", NewChain(wide).Push(narrow))
	require.NoError(t, err)
	assert.Equal(t, "int count, nuint startIndex = 0|Read\n", got)
}

func TestRenderer_EmptyValueStopsCascade(t *testing.T) {
	r := NewRenderer(StaticSource{"t": "[$Doc$]"}, nil)

	chain := NewChain(
		NewValues("method", map[string]string{"Doc": ""}),
		NewValues("defaults", map[string]string{"Doc": "fallback"}),
	)
	got, err := r.RenderString(context.Background(), "t", chain)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestRenderer_UnresolvedVariable(t *testing.T) {
	var out bytes.Buffer
	diag := utils.NewBufferedDiagnostics(utils.DiagnosticWarn, &out)
	r := NewRenderer(StaticSource{"t": "a $NoSuchVariable$ b\n$NoSuchVariable$\n"}, diag)
	chain := NewChain(NewValues("file", nil))

	ctx := WithWarningScope(context.Background(), "Channel.cs")
	for i := 0; i < 2; i++ {
		got, err := r.RenderString(ctx, "t", chain)
		require.NoError(t, err)
		assert.Equal(t, "a  b\n\n", got)
	}

	assert.Equal(t, 2, diag.WarningCount(), "one warning per template line and variable")
	assert.Contains(t, out.String(), "t:1: unresolved variable $NoSuchVariable$ (searched file) in Channel.cs")
	assert.Contains(t, out.String(), "t:2: unresolved variable $NoSuchVariable$")

	// a separate output file reports the same problems again
	_, err := r.RenderString(WithWarningScope(context.Background(), "Device.cs"), "t", chain)
	require.NoError(t, err)
	assert.Equal(t, 4, diag.WarningCount())
	assert.Contains(t, out.String(), "in Device.cs")

	// and so does regenerating the first file, as watch mode does
	_, err = r.RenderString(WithWarningScope(context.Background(), "Channel.cs"), "t", chain)
	require.NoError(t, err)
	assert.Equal(t, 6, diag.WarningCount())
}

func TestRenderer_UnresolvedVariableWithoutScope(t *testing.T) {
	logger := &recordingLogger{}
	r := NewRenderer(StaticSource{"t": "$Missing$\n"}, logger)

	for i := 0; i < 2; i++ {
		_, err := r.RenderString(context.Background(), "t", NewChain())
		require.NoError(t, err)
	}
	assert.Len(t, logger.messages, 2)
}

func TestRenderer_PreservesLineEndingsAndBlankLines(t *testing.T) {
	text := "first $A$\r\n\r\n   \n$A$$B$ tail"
	r := NewRenderer(StaticSource{"t": text}, nil)
	chain := NewChain(NewValues("v", map[string]string{"A": "x", "B": "y"}))

	got, err := r.RenderString(context.Background(), "t", chain)
	require.NoError(t, err)
	assert.Equal(t, "first x\r\n\r\n   \nxy tail", got)
}

func TestRenderer_LeavesNonPlaceholdersAlone(t *testing.T) {
	logger := &recordingLogger{}
	r := NewRenderer(StaticSource{"t": "cost $5 and $ alone, $Name$\n"}, logger)

	got, err := r.RenderString(context.Background(), "t", NewChain(NewValues("v", map[string]string{"Name": "ok"})))
	require.NoError(t, err)
	assert.Equal(t, "cost $5 and $ alone, ok\n", got)
	assert.Empty(t, logger.messages)
}

func TestRenderer_Idempotent(t *testing.T) {
	source, _ := archiveSource(t, nestedArchive)
	r := NewRenderer(source, &recordingLogger{})
	chain := NewChain(NewValues("class", map[string]string{"Name": "X", "Methods": "    m();\n"}))

	first, err := r.RenderString(context.Background(), "class", chain)
	require.NoError(t, err)
	second, err := r.RenderString(context.Background(), "class", chain)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRenderer_MissingTemplate(t *testing.T) {
	r := NewRenderer(StaticSource{}, nil)
	_, err := r.RenderString(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, errors.TemplateErrorCode, errors.CodeOf(err))
}

func TestRenderer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(StaticSource{"t": "x\n"}, nil)
	var buf bytes.Buffer
	err := r.Render(ctx, "t", nil, &buf)
	require.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestVariables(t *testing.T) {
	assert.Equal(t, []string{"Name", "Arguments"}, Variables("$Name$($Arguments$) $Name$"))
	assert.Empty(t, Variables("no placeholders"))
}
