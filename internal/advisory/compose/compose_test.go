package compose

import (
	"strings"
	"testing"

	"loan-advisor/internal/advisory/intent"
	"loan-advisor/internal/advisory/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_EveryIntentHasBothLanguages(t *testing.T) {
	c := New(nil)

	for _, in := range intent.All {
		for _, lang := range []session.Language{session.Norwegian, session.English} {
			t.Run(string(in)+"/"+string(lang), func(t *testing.T) {
				reply := c.Compose(intent.Result{Intent: in, Confidence: 0.5}, lang, nil)
				assert.Equal(t, in, reply.Intent)
				assert.Equal(t, 0.5, reply.Confidence)
				assert.NotEmpty(t, reply.Message)
				assert.Len(t, reply.QuickReplies, 4)
				for _, a := range reply.SuggestedActions {
					assert.NotEmpty(t, a.Label)
					assert.NotEmpty(t, a.Data["route"])
				}
			})
		}
	}
}

func TestCompose_LoanInquiry(t *testing.T) {
	c := New(nil)

	no := c.Compose(intent.Result{Intent: intent.LoanInquiry, Confidence: 0.5}, session.Norwegian, nil)
	assert.True(t, strings.HasPrefix(no.Message, "Jeg kan hjelpe deg med å finne det beste lånet!"))
	assert.Equal(t, []string{
		"Sammenlign forbrukslån",
		"Se boliglån",
		"Beregn månedlige avdrag",
		"Hva trenger jeg for å søke?",
	}, no.QuickReplies)
	require.Len(t, no.SuggestedActions, 2)
	assert.Equal(t, Action{Type: ActionNavigate, Label: "Start sammenligning", Data: map[string]interface{}{"route": "/quiz"}}, no.SuggestedActions[0])
	assert.Equal(t, ActionCalculate, no.SuggestedActions[1].Type)
	assert.Equal(t, "/kalkulator", no.SuggestedActions[1].Data["route"])

	en := c.Compose(intent.Result{Intent: intent.LoanInquiry}, session.English, nil)
	assert.True(t, strings.HasPrefix(en.Message, "I can help you find the best loan!"))
	assert.Equal(t, "Start comparison", en.SuggestedActions[0].Label)
}

func TestCompose_BorrowingCeiling(t *testing.T) {
	c := New(nil)
	res := intent.Result{Intent: intent.LoanComparison, Confidence: 0.7}

	tests := []struct {
		name    string
		lang    session.Language
		profile *session.UserProfile
		want    string
	}{
		{
			name:    "norwegian with income",
			lang:    session.Norwegian,
			profile: &session.UserProfile{Income: 450000},
			want:    "Basert på din inntekt på 450 000 kr kan du låne opptil 2 250 000 kr.",
		},
		{
			name:    "english with income",
			lang:    session.English,
			profile: &session.UserProfile{Income: 600000},
			want:    "Based on your income of 600,000 NOK, you can borrow up to 3,000,000 NOK.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := c.Compose(res, tt.lang, tt.profile)
			assert.True(t, strings.HasSuffix(reply.Message, "\n\n"+tt.want), reply.Message)
		})
	}

	withoutIncome := c.Compose(res, session.Norwegian, &session.UserProfile{Name: "Kari"})
	assert.NotContains(t, withoutIncome.Message, "Basert på din inntekt")
	assert.True(t, strings.HasSuffix(withoutIncome.Message, "Opptil 500.000 kr"))

	noProfile := c.Compose(res, session.English, nil)
	assert.NotContains(t, noProfile.Message, "Based on your income")
}

func TestCompose_Fallbacks(t *testing.T) {
	c := New(nil)

	reply := c.Compose(intent.Result{Intent: "smalltalk", Confidence: 0.3}, session.Language("sv"), nil)
	assert.Equal(t, intent.General, reply.Intent)
	assert.True(t, strings.HasPrefix(reply.Message, "Hei! Jeg er FinanceGPT"))
	assert.Empty(t, reply.SuggestedActions)
}

func TestCompose_Overrides(t *testing.T) {
	c := New(map[intent.Intent]Builder{
		intent.General: func(lang session.Language, _ *session.UserProfile) Reply {
			return Reply{Message: "custom " + string(lang)}
		},
	})

	reply, err := c.Respond(intent.Result{Intent: intent.General, Confidence: 0.3}, session.English, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom en", reply.Message)
	assert.Equal(t, intent.General, reply.Intent)
}

func TestCompose_QuickRepliesAreNotShared(t *testing.T) {
	c := New(nil)
	first := c.Compose(intent.Result{Intent: intent.Calculation}, session.Norwegian, nil)
	first.QuickReplies[0] = "changed"

	second := c.Compose(intent.Result{Intent: intent.Calculation}, session.Norwegian, nil)
	assert.Equal(t, "Åpne kalkulator", second.QuickReplies[0])
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		amount float64
		lang   session.Language
		want   string
	}{
		{0, session.Norwegian, "0 kr"},
		{999, session.Norwegian, "999 kr"},
		{1000, session.Norwegian, "1 000 kr"},
		{1000000, session.Norwegian, "1 000 000 kr"},
		{1234567.6, session.English, "1,234,568 NOK"},
		{-25000, session.English, "-25,000 NOK"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCurrency(tt.amount, tt.lang))
		})
	}
}

func TestApology(t *testing.T) {
	assert.Equal(t, "Beklager, jeg støtte på en feil. Vennligst prøv igjen.", Apology(session.Norwegian))
	assert.Equal(t, "I'm sorry, I encountered an error. Please try again.", Apology(session.English))
}
