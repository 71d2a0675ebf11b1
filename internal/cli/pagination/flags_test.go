package pagination

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{"empty", Params{}, nil},
		{"offset mode", Params{Limit: 10, Offset: 20}, nil},
		{"page mode", Params{Page: 2, PageSize: 25}, nil},
		{"negative", Params{Offset: -1}, ErrNegative},
		{"limit too large", Params{Limit: 501}, ErrLimitTooLarge},
		{"page size too large", Params{Page: 1, PageSize: 501}, ErrPageTooLarge},
		{"mixed", Params{Page: 1, PageSize: 10, Offset: 5}, ErrMixedModes},
		{"page size alone", Params{PageSize: 10}, ErrPageSizeAlone},
		{"page alone", Params{Page: 3}, ErrPageAlone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParams_Query(t *testing.T) {
	limit, offset := Params{}.Query()
	assert.Nil(t, limit)
	assert.Nil(t, offset)

	limit, offset = Params{Limit: 5}.Query()
	require.NotNil(t, limit)
	assert.Equal(t, 5, *limit)
	assert.Nil(t, offset)

	limit, offset = Params{Page: 3, PageSize: 20}.Query()
	require.NotNil(t, limit)
	require.NotNil(t, offset)
	assert.Equal(t, 20, *limit)
	assert.Equal(t, 40, *offset)
}

func TestParams_WithDefaultLimit(t *testing.T) {
	assert.Equal(t, 50, Params{}.WithDefaultLimit(50).Limit)
	assert.Equal(t, 7, Params{Limit: 7}.WithDefaultLimit(50).Limit)
	assert.Equal(t, 0, Params{Page: 1, PageSize: 10}.WithDefaultLimit(50).Limit)
}

func TestParams_Bind(t *testing.T) {
	var p Params
	cmd := &cobra.Command{Use: "list", RunE: func(*cobra.Command, []string) error { return nil }}
	p.Bind(cmd)
	cmd.SetArgs([]string{"--page", "2", "--page-size", "10"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.True(t, p.IsPageBased())
}
