package dto

import (
	"encoding/json"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"restaurantops_backend/internals/features/evaluations/answers"
	"restaurantops_backend/internals/features/evaluations/lifecycle"
)

func TestSaveDraftRequestKeepsDraftKindOnTheWire(t *testing.T) {
	t.Parallel()

	empty := ""
	codecs := map[string]struct {
		marshal   func(any) ([]byte, error)
		unmarshal func([]byte, any) error
	}{
		"encoding/json": {json.Marshal, json.Unmarshal},
		"sonic":         {sonic.Marshal, sonic.Unmarshal},
	}
	cases := []struct {
		name   string
		req    SaveDraftRequest
		action lifecycle.Action
		wire   string
	}{
		{
			name:   "cleared manager draft",
			req:    SaveDraftRequest{ManagerEvaluation: answers.Map{}, OverallComments: &empty},
			action: lifecycle.ActionSaveManagerDraft,
			wire:   `{"managerEvaluation":{},"overallComments":""}`,
		},
		{
			name:   "manager answers",
			req:    SaveDraftRequest{ManagerEvaluation: answers.Map{answers.K(0, 1): answers.Number(2)}, PreventStatusChange: true},
			action: lifecycle.ActionSaveManagerDraft,
			wire:   `{"managerEvaluation":{"0-1":2},"preventStatusChange":true}`,
		},
		{
			name:   "empty self draft",
			req:    SaveDraftRequest{SelfEvaluation: answers.Map{}},
			action: lifecycle.ActionSaveSelfDraft,
			wire:   `{"selfEvaluation":{}}`,
		},
	}

	for codecName, codec := range codecs {
		for _, tc := range cases {
			t.Run(codecName+"/"+tc.name, func(t *testing.T) {
				b, err := codec.marshal(tc.req)
				require.NoError(t, err)
				require.JSONEq(t, tc.wire, string(b))

				var decoded SaveDraftRequest
				require.NoError(t, codec.unmarshal(b, &decoded))
				p := decoded.ToPayload()
				require.Equal(t, tc.action, p.DraftAction())
				if tc.action == lifecycle.ActionSaveManagerDraft {
					require.NotNil(t, p.Manager)
					require.Nil(t, p.Self)
					require.True(t, tc.req.ManagerEvaluation.Equal(p.Manager))
				} else {
					require.NotNil(t, p.Self)
					require.Nil(t, p.Manager)
				}
			})
		}
	}
}
