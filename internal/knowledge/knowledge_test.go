package knowledge

import (
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/yungbote/neurobridge-backend/internal/domain"
)

func TestPersonaForIntent_MatchesChannel(t *testing.T) {
	stages := []domain.Stage{
		{Channel: "email", Persona: "ae-persona"},
		{Channel: "linkedin", Persona: "sdr-persona"},
	}
	require.Equal(t, "sdr-persona", personaForIntent(stages, "linkedin"))
}

func TestPersonaForIntent_FallsBackToFirstNonEmpty(t *testing.T) {
	stages := []domain.Stage{
		{Channel: "email", Persona: ""},
		{Channel: "linkedin", Persona: "sdr-persona"},
	}
	require.Equal(t, "sdr-persona", personaForIntent(stages, "sms"))
}

func TestPersonaForIntent_DefaultWhenNoPersonas(t *testing.T) {
	stages := []domain.Stage{{Channel: "email"}}
	require.Equal(t, "default", personaForIntent(stages, "email"))
}

func TestPersonaForIntent_EmptyIntentMatchesFirstPersona(t *testing.T) {
	stages := []domain.Stage{
		{Channel: "email", Persona: "ae-persona"},
		{Channel: "linkedin", Persona: "sdr-persona"},
	}
	require.Equal(t, "ae-persona", personaForIntent(stages, ""))
}
