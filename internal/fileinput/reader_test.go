package fileinput_test

import (
	"io/ioutil"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilyJ80/nanoforth/internal/fileinput"
)

func TestAsReaderReadsThrough(t *testing.T) {
	var in fileinput.Input
	in.Queue = append(in.Queue, namedReader{strings.NewReader("1 2 + .")})

	r := fileinput.AsReader(&in)
	got, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "1 2 + .", string(got))
}

type namedReader struct{ *strings.Reader }

func (namedReader) Name() string { return "<test>" }
