package lsp

// https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification/#workspace_applyEdit
type ApplyWorkspaceEditRequest struct {
	Request
	Params ApplyWorkspaceEditParams `json:"params"`
}

type ApplyWorkspaceEditParams struct {
	Label string        `json:"label,omitempty"`
	Edit  WorkspaceEdit `json:"edit"`
}

func NewApplyWorkspaceEditRequest(id int, label string, edit WorkspaceEdit) ApplyWorkspaceEditRequest {
	return ApplyWorkspaceEditRequest{
		Request: Request{
			RPC:    RPC_VERSION,
			ID:     id,
			Method: "workspace/applyEdit",
		},
		Params: ApplyWorkspaceEditParams{
			Label: label,
			Edit:  edit,
		},
	}
}
