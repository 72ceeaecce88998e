package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/toyz/rtgen/internal/models"
)

func daqType(name, modifiers string) *models.TypeName {
	return models.NewTypeName("daq", name, modifiers)
}

func channelFile() *models.RTFile {
	file := models.NewRTFile("Channel", "daq")

	iface := models.NewRTInterface(daqType("IChannel", ""), daqType("IBaseObject", ""))
	iface.Documentation = &models.Documentation{Brief: "A signal <channel>."}
	iface.AddMethod(models.NewMethodBuilder("getName").ReturnsErrCode().
		WithArgument("name", daqType("IString", "**")).
		WithDocumentation(&models.Documentation{Brief: "Gets the channel name."}).
		Build())
	iface.AddMethod(models.NewMethodBuilder("setName").ReturnsErrCode().
		WithArgument("name", daqType("IString", "*")).Build())
	iface.AddMethod(models.NewMethodBuilder("reset").ReturnsErrCode().Build())
	iface.AddMethod(models.NewMethodBuilder("setRate").ReturnsErrCode().
		WithArgument("rate", models.NewTypeName("", "Int", "")).
		AsReturnSelf().Build())
	iface.AddEvent(&models.Event{Name: "onRateChanged"})
	file.Interfaces = append(file.Interfaces, iface)

	file.Factories = append(file.Factories, &models.RTFactory{
		PrettyName:    "create",
		Name:          "createChannel",
		InterfaceName: "IChannel",
		Arguments: []*models.Argument{
			models.NewArgument("name", daqType("IString", "*")),
		},
	})

	file.Finalize()
	return file
}

func newTestGenerator(t *testing.T, opts Options) *Generator {
	t.Helper()
	if opts.Version == "" {
		opts.Version = "test"
	}
	g, err := NewGenerator(opts, nil)
	require.NoError(t, err)
	return g
}

func generate(t *testing.T, g *Generator, file *models.RTFile) string {
	t.Helper()
	out, err := g.Generate(context.Background(), file)
	require.NoError(t, err)
	return string(out.Content)
}

func TestGenerate_EnumOnlyGolden(t *testing.T) {
	ar, err := txtar.ParseFile(filepath.Join("testdata", "enum_only.txtar"))
	require.NoError(t, err)
	require.Len(t, ar.Files, 1)

	file := models.NewRTFile("Types", "daq")
	file.Enums = append(file.Enums, &models.Enumeration{
		Name: "ChannelState",
		Values: []models.EnumValue{
			{Name: "idle"},
			{Name: "running", Value: "5"},
		},
	})

	g := newTestGenerator(t, Options{})
	assert.Equal(t, string(ar.Files[0].Data), generate(t, g, file))
}

func TestGenerate_Class(t *testing.T) {
	g := newTestGenerator(t, Options{})
	out := generate(t, g, channelFile())

	assert.True(t, strings.HasPrefix(out, GeneratedMarker))
	assert.Contains(t, out, "namespace Daq\n")
	assert.Contains(t, out, `    [Guid("`+InterfaceGUID("Daq", "IChannel")+`")]`)
	assert.Contains(t, out, "    /// A signal &lt;channel&gt;.\n")
	assert.Contains(t, out, "    public partial class Channel : BaseObject\n")
	assert.Contains(t, out, "        internal Channel(IntPtr nativePointer) : base(nativePointer)\n")

	// native imports keep the raw signature
	assert.Contains(t, out, `EntryPoint = "Channel_getName")]`)
	assert.Contains(t, out, "private static extern ErrorCode getNameNative(IntPtr self, out IntPtr name);")
	assert.Contains(t, out, "private static extern ErrorCode setRateNative(IntPtr self, long rate);")

	// getName/setName pair up into a property of the cast type
	assert.Contains(t, out, "        /// Gets the channel name.\n        /// </summary>\n        public string Name\n")
	assert.Contains(t, out, "CheckError(getNameNative(NativePointer, out var value));")
	assert.Contains(t, out, "            set => CheckError(setNameNative(NativePointer, value));\n")
	assert.NotContains(t, out, "public void SetName(")

	assert.Contains(t, out, "        public void Reset()\n        {\n            CheckError(resetNative(NativePointer));\n        }")
	assert.Contains(t, out, "        public Channel SetRate(long rate)\n        {\n"+
		"            CheckError(setRateNative(NativePointer, rate));\n            return this;\n        }")

	assert.Contains(t, out, "public event EventHandler<EventArgs> OnRateChanged;")

	assert.Contains(t, out, `EntryPoint = "createChannel")]`)
	assert.Contains(t, out, "private static extern ErrorCode createChannel(out IntPtr obj, IntPtr name);")
	assert.Contains(t, out, "        public static Channel Create(string name)\n")
	assert.Contains(t, out, "CheckError(createChannel(out var obj, name));")

	assert.NotContains(t, out, "OpendaqNative", "no functions class without global functions")
}

func TestGenerate_IgnoredGetterKeepsSetter(t *testing.T) {
	file := channelFile()
	iface := file.Interfaces[0]
	for _, m := range iface.Methods {
		if m.Name == "getName" {
			m.IgnoredFor = map[string]bool{"csharp": true}
		}
	}

	out := generate(t, newTestGenerator(t, Options{}), file)
	assert.NotContains(t, out, "public string Name\n")
	assert.NotContains(t, out, "getNameNative")
	assert.Contains(t, out, "        public void SetName(string name)\n")
	assert.Contains(t, out, "CheckError(setNameNative(NativePointer, name));")
}

func TestGenerate_Deterministic(t *testing.T) {
	g := newTestGenerator(t, Options{})
	first := generate(t, g, channelFile())
	second := generate(t, g, channelFile())
	assert.Equal(t, first, second)
}

func TestGenerate_GlobalFunctions(t *testing.T) {
	file := models.NewRTFile("Version", "daq")
	file.Methods = append(file.Methods,
		models.NewMethodBuilder("daqGetVersion").ReturnsErrCode().
			WithArgument("major", models.NewTypeName("", "SizeT", "*")).
			WithCallingConvention("__cdecl").Build(),
	)
	hidden := models.NewMethodBuilder("daqInternal").ReturnsErrCode().Build()
	hidden.IgnoredFor = map[string]bool{"csharp": true}
	file.Methods = append(file.Methods, hidden)

	g := newTestGenerator(t, Options{LibraryName: "daqcore"})
	out := generate(t, g, file)

	assert.Contains(t, out, "    public static partial class DaqcoreNative\n    {\n")
	assert.Contains(t, out, `[DllImport("daqcore", CallingConvention = CallingConvention.Cdecl, EntryPoint = "daqGetVersion")]`)
	assert.Contains(t, out, "public static extern ErrorCode DaqGetVersion(out nuint major);")
	assert.NotContains(t, out, "daqInternal")
}

func TestGenerate_ReaderStartIndex(t *testing.T) {
	file := models.NewRTFile("StreamReader", "daq")
	iface := models.NewRTInterface(daqType("IStreamReader", ""), daqType("IReader", ""))
	iface.AddMethod(models.NewMethodBuilder("read").ReturnsErrCode().
		WithArgument("samples", models.NewTypeName("", "void", "*")).
		WithArgument("timeoutMs", models.NewTypeName("", "SizeT", "")).
		WithArgument("count", models.NewTypeName("", "SizeT", "*")).
		Build())
	file.Interfaces = append(file.Interfaces, iface)
	file.Finalize()

	g := newTestGenerator(t, Options{})
	out := generate(t, g, file)

	assert.Contains(t, out, "public nuint Read(TValueType[] samples, nuint timeoutMs, nuint startIndex = 0)")
	assert.Contains(t, out, "CheckError(readNative(NativePointer, samples, timeoutMs, out var count));")
	assert.Contains(t, out, "return count;")
	assert.Contains(t, out, "readNative(IntPtr self, IntPtr samples, nuint timeoutMs, out nuint count);")
}

func TestGenerate_StrictGenerics(t *testing.T) {
	build := func() *models.RTFile {
		file := models.NewRTFile("Device", "daq")
		iface := models.NewRTInterface(daqType("IDevice", ""), nil)
		iface.AddMethod(models.NewMethodBuilder("getChannels").ReturnsErrCode().
			WithArgument("channels", daqType("IList", "**")).Build())
		file.Interfaces = append(file.Interfaces, iface)
		file.Finalize()
		return file
	}

	lenient := newTestGenerator(t, Options{})
	assert.Contains(t, generate(t, lenient, build()), "public #List# Channels")

	strict := newTestGenerator(t, Options{StrictGenerics: true})
	out, err := strict.Generate(context.Background(), build())
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "Device")
}

func TestGenerate_GenericFactorySamples(t *testing.T) {
	build := func() *models.RTFile {
		file := models.NewRTFile("List", "daq")
		iface := models.NewRTInterface(daqType("IBox", ""), nil)
		placeholder := &models.TypeName{UnmappedName: "T", Name: "T", IsGenericParameter: true}
		iface.Factories = append(iface.Factories, &models.RTFactory{
			PrettyName: "Box",
			Name:       "createBox",
			Arguments:  []*models.Argument{models.NewArgument("value", placeholder)},
			Generic:    &models.RTGenericFactory{Placeholders: []string{"T"}},
		})
		file.Interfaces = append(file.Interfaces, iface)
		file.Finalize()
		return file
	}

	open := generate(t, newTestGenerator(t, Options{}), build())
	assert.Contains(t, open, "public static Box Box<T>(T value)")

	g := newTestGenerator(t, Options{FactorySamples: map[string][]string{
		"T": {"IString", "IInteger"},
	}})
	out := generate(t, g, build())
	assert.Contains(t, out, "public static Box BoxString(string value)")
	assert.Contains(t, out, "public static Box BoxInteger(long value)")
	assert.NotContains(t, out, "Box<T>")

	lower := newTestGenerator(t, Options{FactorySamples: map[string][]string{"t": {"IString"}}})
	assert.Contains(t, generate(t, lower, build()), "public static Box BoxString(string value)")
}

func TestGenerate_TemplateOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enum.template"),
		[]byte("    // enum $EnumName$ ($SourceName$)\n"), 0644))

	file := models.NewRTFile("Types", "daq")
	file.Enums = append(file.Enums, &models.Enumeration{Name: "Mode"})

	g := newTestGenerator(t, Options{TemplateDirs: []string{dir}})
	out := generate(t, g, file)
	assert.Contains(t, out, "    // enum Mode (Types)\n")
	assert.Contains(t, out, "namespace Daq", "other templates still come from the embedded set")
}

type countingLogger struct {
	messages []string
}

func (l *countingLogger) Warn(format string, args ...interface{}) {
	if msg := fmt.Sprintf(format, args...); strings.Contains(msg, "NoSuchVariable") {
		l.messages = append(l.messages, msg)
	}
}

func TestGenerate_UnresolvedVariableReportedPerFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enum.template"),
		[]byte("    // $NoSuchVariable$\n"), 0644))

	logger := &countingLogger{}
	g, err := NewGenerator(Options{Version: "test", TemplateDirs: []string{dir}}, logger)
	require.NoError(t, err)

	types := models.NewRTFile("Types", "daq")
	types.Enums = append(types.Enums, &models.Enumeration{Name: "Mode"}, &models.Enumeration{Name: "State"})
	units := models.NewRTFile("Units", "daq")
	units.Enums = append(units.Enums, &models.Enumeration{Name: "Unit"})

	generate(t, g, types)
	require.Len(t, logger.messages, 1, "repeated in one file, reported once")
	assert.Contains(t, logger.messages[0], "in Types.cs")

	generate(t, g, units)
	require.Len(t, logger.messages, 2)
	assert.Contains(t, logger.messages[1], "in Units.cs")

	generate(t, g, types)
	assert.Len(t, logger.messages, 3, "regenerating a file reports again")
}

func TestGenerate_NamespaceOverrideAndDocs(t *testing.T) {
	file := models.NewRTFile("Types", "")
	file.LeadingDocs = []string{"Copyright header"}
	file.TrailingDocs = []string{"end"}

	g := newTestGenerator(t, Options{Namespace: "Acme.Bindings"})
	out := generate(t, g, file)
	assert.Contains(t, out, "// Copyright header\nusing System;")
	assert.Contains(t, out, "namespace Acme.Bindings\n")
	assert.True(t, strings.HasSuffix(out, "}\n// end\n"))

	out = generate(t, newTestGenerator(t, Options{}), file)
	assert.Contains(t, out, "namespace Generated\n")
}

func TestGenerate_NilFile(t *testing.T) {
	g := newTestGenerator(t, Options{})
	_, err := g.Generate(context.Background(), nil)
	require.Error(t, err)
}

func TestFileName(t *testing.T) {
	g := newTestGenerator(t, Options{})
	assert.Equal(t, "StreamReader.cs", g.FileName(models.NewRTFile("stream_reader", "daq")))
}

func TestInterfaceGUID(t *testing.T) {
	a := InterfaceGUID("Daq", "IChannel")
	assert.Equal(t, a, InterfaceGUID("Daq", "IChannel"))
	assert.NotEqual(t, a, InterfaceGUID("Daq", "IDevice"))
	assert.Len(t, a, 36)
}
