package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAction(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Action
		wantErr bool
	}{
		{name: "start form", data: "start_form", want: StartFormAction()},
		{name: "contact admin", data: "contact_admin", want: ContactAdminAction()},
		{name: "about", data: "about", want: AboutAction()},
		{name: "broker index", data: "broker:3", want: BrokerSelectAction(3)},
		{name: "pay rub", data: "pay:RUB:399", want: PayAction("RUB", 399)},
		{name: "pay stars", data: "pay:XTR:250", want: PayAction("XTR", 250)},
		{name: "free with colon in entity", data: "free:Foo:Bar", want: Action{Kind: ActionFree, Entity: "Foo:Bar"}},
		{name: "back", data: "back:Яндекс", want: Action{Kind: ActionBack, Entity: "Яндекс"}},
		{name: "unknown kind", data: "pay_rub:399", wantErr: true},
		{name: "negative broker index", data: "broker:-1", wantErr: true},
		{name: "broker without index", data: "broker", wantErr: true},
		{name: "pay unknown currency", data: "pay:USD:5", wantErr: true},
		{name: "pay zero amount", data: "pay:RUB:0", wantErr: true},
		{name: "pay missing amount", data: "pay:RUB", wantErr: true},
		{name: "free without entity", data: "free:", wantErr: true},
		{name: "about with args", data: "about:x", wantErr: true},
		{name: "empty", data: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAction(tt.data)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestActionDataRoundTrip(t *testing.T) {
	actions := []Action{
		StartFormAction(),
		BrokerSelectAction(7),
		PayAction("XTR", 250),
		FreeAction("Netflix"),
		BackAction("Яндекс.Плюс"),
	}
	for _, a := range actions {
		parsed, err := ParseAction(a.Data())
		require.NoError(t, err, a.Data())
		assert.Equal(t, a, parsed)
	}
}

func TestFreeActionFitsCallbackLimit(t *testing.T) {
	long := strings.Repeat("Подписка", 20)
	a := FreeAction(long)

	assert.LessOrEqual(t, len(a.Data()), MaxCallbackData)
	assert.True(t, strings.HasPrefix(long, a.Entity))

	parsed, err := ParseAction(a.Data())
	require.NoError(t, err)
	assert.Equal(t, a.Entity, parsed.Entity)
}
