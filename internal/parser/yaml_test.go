package parser

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsongen/internal/config"
	"jsongen/internal/generator"
	"jsongen/internal/logger"
	"jsongen/internal/model"
	"jsongen/internal/registry"
)

const yamlCapability = "JsonSerializerUtil.IJsonSerializable"

func TestLoadModel(t *testing.T) {
	m, err := LoadModel(filepath.Join("testdata", "poco.yaml"))
	require.NoError(t, err)

	t.Run("Should build namespaces, types and members", func(t *testing.T) {
		assert.Equal(t, "TestProj", m.Name)
		poco := m.LookupType("TestProj.Poco")
		require.NotNil(t, poco)
		assert.Equal(t, model.Public, poco.Access)
		assert.Equal(t, model.KindStruct, poco.Kind)
		assert.Equal(t, "/src/TestProj", poco.Namespace.Dir)
		require.Len(t, poco.Members, 4)
		assert.Equal(t, model.SpecialString, poco.Members[1].Type.Special)
		assert.Equal(t, model.Private, poco.Members[2].Access)
		assert.Equal(t, model.MemberMethod, poco.Members[3].Kind)
	})

	t.Run("Should attach nested types to their container", func(t *testing.T) {
		settings := m.LookupType("TestProj.Poco.Settings")
		require.NotNil(t, settings)
		assert.Equal(t, "Poco", settings.Parent.Name)
		assert.Equal(t, model.Internal, settings.Access)
	})

	t.Run("Should resolve the capability from references", func(t *testing.T) {
		capability := m.LookupType(yamlCapability)
		require.NotNil(t, capability)
		assert.Equal(t, []string{"T"}, capability.TypeParams)
	})

	t.Run("Should generate for matched types only", func(t *testing.T) {
		cfg := config.New()
		cfg.Capability = yamlCapability
		g := generator.New(cfg, logger.NewLogger(logger.TestConfig()))

		reg := registry.NewMemory()
		n, err := g.Generate(m, reg)
		require.NoError(t, err)
		assert.Equal(t, 3, n)

		var names []string
		for _, f := range reg.Fragments {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"Settings.JsonSerializable", "Poco.JsonSerializable", "Deep.JsonSerializable"}, names)

		deep, _ := reg.Lookup("Deep.JsonSerializable")
		assert.Equal(t, "A.B.C", deep.Namespace)

		poco, _ := reg.Lookup("Poco.JsonSerializable")
		assert.Equal(t, "/src/TestProj", poco.Dir)
	})
}

func TestParseModel(t *testing.T) {
	t.Run("Should default access to public and kind to property", func(t *testing.T) {
		m, err := ParseModel([]byte(`
types:
  - name: Loose
    members:
      - name: N
        type: int
`))
		require.NoError(t, err)
		loose := m.LookupType("Loose")
		require.NotNil(t, loose)
		assert.Equal(t, model.Public, loose.Access)
		assert.Equal(t, model.MemberProperty, loose.Members[0].Kind)
		assert.True(t, loose.Namespace.IsGlobal())
	})

	t.Run("Should reject unknown accessibility", func(t *testing.T) {
		_, err := ParseModel([]byte("types:\n  - name: X\n    access: friend\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "friend")
	})

	t.Run("Should reject unknown member kinds", func(t *testing.T) {
		_, err := ParseModel([]byte("types:\n  - name: X\n    members:\n      - name: E\n        kind: event\n"))
		require.Error(t, err)
	})

	t.Run("Should reject unnamed namespaces", func(t *testing.T) {
		_, err := ParseModel([]byte("namespaces:\n  - types: []\n"))
		require.Error(t, err)
	})

	t.Run("Should reject names that are not Go identifiers", func(t *testing.T) {
		cases := map[string]string{
			"member":         "types:\n  - name: Order\n    members:\n      - name: my-field\n        type: int\n",
			"keyword member": "types:\n  - name: Order\n    members:\n      - name: type\n        type: string\n",
			"type":           "types:\n  - name: 2Order\n",
			"type parameter": "types:\n  - name: Box\n    typeParams: [T-1]\n",
			"package":        "namespaces:\n  - name: shop\n    package: my-shop\n",
		}
		for name, doc := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := ParseModel([]byte(doc))
				require.Error(t, err)
				assert.Contains(t, err.Error(), "not a Go identifier")
			})
		}
	})

	t.Run("Should name the owning type of a bad member", func(t *testing.T) {
		_, err := ParseModel([]byte("types:\n  - name: Order\n    members:\n      - name: my-field\n        type: int\n"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type Order")
		assert.Contains(t, err.Error(), `"my-field"`)
	})

	t.Run("Should reject malformed YAML", func(t *testing.T) {
		_, err := ParseModel([]byte("types: ["))
		require.Error(t, err)
	})

	t.Run("Should fail for a missing file", func(t *testing.T) {
		_, err := LoadModel(filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
	})
}
