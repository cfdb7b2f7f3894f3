package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroy(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd)
	assert.Equal(t, "destroy", cmd.Use)
	assert.Equal(t, "Delete an instance, a bucket and a queue", cmd.Short)
	assert.Contains(t, cmd.Long, "WARNING")
}

func TestDestroy_ResourceFlags(t *testing.T) {
	cmd := Destroy()

	for _, name := range []string{"instance", "bucket", "queue"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, "%s flag should exist", name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestDestroy_RequiresOneResource(t *testing.T) {
	root := Root()
	root.SetArgs([]string{"destroy"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one of the flags in the group [instance bucket queue] is required")
}
