package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	cfg := map[string]string{
		"PORT":            "8080",
		"BAD_INT":         "eight",
		"RATE":            "2.5",
		"ENABLED":         "TRUE",
		"DISABLED":        "0",
		"ORIGINS":         " http://a.test , ,http://b.test",
		"BLANK":           "  ",
		"TIMEOUT_SECONDS": "15",
	}

	assert.Equal(t, "8080", GetString(cfg, "PORT", ""))
	assert.Equal(t, "x", GetString(nil, "PORT", "x"))
	assert.Equal(t, 8080, GetInt(cfg, "PORT", 1))
	assert.Equal(t, 1, GetInt(cfg, "BAD_INT", 1))
	assert.Equal(t, int64(8080), GetInt64(cfg, "PORT", 0))
	assert.InDelta(t, 2.5, GetFloat(cfg, "RATE", 0), 1e-9)
	assert.InDelta(t, 1.0, GetFloat(cfg, "MISSING", 1), 1e-9)
	assert.True(t, GetBool(cfg, "ENABLED", false))
	assert.False(t, GetBool(cfg, "DISABLED", true))
	assert.True(t, GetBool(cfg, "MISSING", true))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, GetStrings(cfg, "ORIGINS", nil))
	assert.Equal(t, []string{"*"}, GetStrings(cfg, "BLANK", []string{"*"}))
	assert.Equal(t, 15*time.Second, GetSeconds(cfg, "TIMEOUT_SECONDS", time.Second))
	assert.Equal(t, time.Second, GetSeconds(cfg, "MISSING", time.Second))
}

func TestSplit(t *testing.T) {
	k, v := split("A=b=c")
	assert.Equal(t, "A", k)
	assert.Equal(t, "b=c", v)

	k, v = split("FLAG")
	assert.Equal(t, "FLAG", k)
	assert.Equal(t, "", v)
}

type fakeSSM struct {
	pages [][]types.Parameter
	err   error
	calls []*ssm.GetParametersByPathInput
}

func (f *fakeSSM) GetParametersByPath(_ context.Context, in *ssm.GetParametersByPathInput, _ ...func(*ssm.Options)) (*ssm.GetParametersByPathOutput, error) {
	f.calls = append(f.calls, in)
	if f.err != nil {
		return nil, f.err
	}
	i := len(f.calls) - 1
	out := &ssm.GetParametersByPathOutput{Parameters: f.pages[i]}
	if i+1 < len(f.pages) {
		out.NextToken = aws.String("next")
	}
	return out, nil
}

func TestLoadSSM(t *testing.T) {
	client := &fakeSSM{pages: [][]types.Parameter{
		{
			{Name: aws.String("/closet/prod/supabase-jwt-secret"), Value: aws.String("s3cret")},
			{Name: aws.String("/closet/prod/PORT"), Value: aws.String("9000")},
		},
		{
			{Name: aws.String("/closet/prod/storage/STORAGE_BUCKET"), Value: aws.String("clothes")},
		},
	}}
	cfg := map[string]string{"PORT": "8080", "DB_TYPE": "supa"}

	n, err := LoadSSM(context.Background(), client, "/closet/prod", cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, n)
	assert.Equal(t, "s3cret", cfg["SUPABASE_JWT_SECRET"])
	assert.Equal(t, "9000", cfg["PORT"])
	assert.Equal(t, "clothes", cfg["STORAGE_BUCKET"])
	assert.Equal(t, "supa", cfg["DB_TYPE"])

	require.Len(t, client.calls, 2)
	assert.True(t, aws.ToBool(client.calls[0].WithDecryption))
	assert.True(t, aws.ToBool(client.calls[0].Recursive))
	assert.Equal(t, "next", aws.ToString(client.calls[1].NextToken))
}

func TestLoadSSMError(t *testing.T) {
	client := &fakeSSM{err: errors.New("access denied")}
	_, err := LoadSSM(context.Background(), client, "/closet", map[string]string{})
	assert.ErrorContains(t, err, "access denied")
}
