package page

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sharedPage = `<!DOCTYPE html>
<html><body>
<div class="search-container">
  <form method="post" data-is-authenticated="false">
    <input type="hidden" name="csrfmiddlewaretoken" value="tok-1">
    <input type="text" id="search" name="search">
  </form>
</div>
<div id="loading" style="display:none"></div>
<div id="results-container" data-is-shared-view="true"
     data-shared-result="&quot;[{\&quot;claim\&quot;: \&quot;X\&quot;}]&quot;"
     data-shared-query="is X true"></div>
</body></html>`

func TestExtract_SharedPage(t *testing.T) {
	attrs, err := Extract(strings.NewReader(sharedPage))
	require.NoError(t, err)

	assert.True(t, attrs.IsSharedView)
	assert.False(t, attrs.IsAuthenticated)
	assert.Equal(t, "is X true", attrs.SharedQuery)
	assert.Equal(t, "tok-1", attrs.CSRFToken)

	// The embedded value decodes twice
	var inner string
	require.NoError(t, json.Unmarshal([]byte(attrs.SharedResult), &inner))
	assert.JSONEq(t, `[{"claim": "X"}]`, inner)
}

func TestExtract_SearchPage(t *testing.T) {
	attrs, err := Extract(strings.NewReader(`<form data-is-authenticated="true"></form>
		<form data-is-authenticated="false"></form>
		<div id="results-container" data-is-shared-view="false"></div>`))
	require.NoError(t, err)

	assert.False(t, attrs.IsSharedView)
	assert.True(t, attrs.IsAuthenticated, "first form wins")
	assert.Empty(t, attrs.SharedResult)
	assert.Empty(t, attrs.CSRFToken)
}

func TestExtract_FlagsNeedExactTrue(t *testing.T) {
	attrs, err := Extract(strings.NewReader(`<form data-is-authenticated="True"></form>
		<div id="results-container" data-is-shared-view="1"></div>`))
	require.NoError(t, err)

	assert.False(t, attrs.IsAuthenticated)
	assert.False(t, attrs.IsSharedView)
}

func TestExtract_EmptyDocument(t *testing.T) {
	attrs, err := Extract(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Attributes{}, attrs)
}
