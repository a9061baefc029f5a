package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chemsafe/chemsafe/internal/cli"
	"github.com/chemsafe/chemsafe/pkg/version"
)

func TestVersionWiring(t *testing.T) {
	require.NotEmpty(t, version.GetVersion())

	cmd := cli.NewRootCmd(version.GetVersion())
	assert.Equal(t, version.GetVersion(), cmd.Version)
}

func TestRootCmdHelp(t *testing.T) {
	cmd := cli.NewRootCmd(version.GetVersion())

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "chemsafe")
	assert.Contains(t, out.String(), "search")
}
