package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListenAddr(t *testing.T) {
	assert.Equal(t, ":8080", listenAddr(""))
	assert.Equal(t, ":9000", listenAddr("9000"))
	assert.Equal(t, ":9000", listenAddr(":9000"))
	assert.Equal(t, "127.0.0.1:9000", listenAddr("127.0.0.1:9000"))
}

func TestExportExt(t *testing.T) {
	for in, want := range map[string]string{"xlsx": "xlsx", "excel": "xlsx", "csv": "csv", "json": "json"} {
		got, err := exportExt(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := exportExt("pdf")
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "dompet "+Version+"\n", buf.String())
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["export"])
	assert.True(t, names["version"])
	assert.True(t, names["mail-test"])
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}
