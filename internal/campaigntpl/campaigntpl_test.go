package campaigntpl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const validDoc = `
name: q1-outbound
channel: email
schedule_policy: business_hours
stages:
  - channel: email
    wait_days: 0
    subject: "Quick question"
    body: "Hi {{first_name}}, ..."
  - channel: email
    wait_days: 3
    subject: "Following up"
    body: "Circling back..."
`

func TestParse_Valid(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	require.Equal(t, "q1-outbound", doc.Name)
	require.Len(t, doc.Stages, 2)
}

func TestParse_RejectsUnknownChannel(t *testing.T) {
	_, err := Parse([]byte("name: x\nchannel: carrier-pigeon\nstages:\n  - body: hi\n"))
	require.Error(t, err)
}

func TestParse_RejectsMissingName(t *testing.T) {
	_, err := Parse([]byte("channel: email\nstages:\n  - body: hi\n"))
	require.Error(t, err)
}

func TestParse_RejectsNonFirstStageWithZeroWait(t *testing.T) {
	doc := `
name: bad
channel: email
stages:
  - body: first
    wait_days: 0
  - body: second
    wait_days: 0
`
	_, err := Parse([]byte(doc))
	require.Error(t, err)
}

func TestToTemplate(t *testing.T) {
	doc, err := Parse([]byte(validDoc))
	require.NoError(t, err)
	tpl, err := doc.ToTemplate()
	require.NoError(t, err)
	require.Equal(t, "q1-outbound", tpl.Name)
	require.NotEmpty(t, tpl.Stages)
}
