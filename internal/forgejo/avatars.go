package forgejo

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/temirov/gh2fj/internal/hosting"
)

const (
	userAvatarPathConstant          = "/user/avatar"
	organizationAvatarPathConstant  = "/orgs/{login}/avatar"
	downloadAvatarOperationConstant = hosting.OperationName("DownloadAvatar")
	uploadAvatarOperationConstant   = hosting.OperationName("UploadAvatar")
)

type avatarPayload struct {
	Image string `json:"image"`
}

// UploadAvatar copies the image at avatarURL onto the destination account.
// Users are targeted through the Sudo header, organizations through their
// own avatar endpoint. An empty URL is skipped without any request.
func (client *Client) UploadAvatar(executionContext context.Context, login string, avatarURL string, ownerKind hosting.OwnerKind) hosting.BestEffortResult {
	if len(strings.TrimSpace(avatarURL)) == 0 {
		return hosting.BestEffortResult{Operation: uploadAvatarOperationConstant, Skipped: true}
	}

	downloadResponse, downloadError := client.downloader.R().SetContext(executionContext).Get(avatarURL)
	if downloadError = client.checkResponse(downloadAvatarOperationConstant, downloadResponse, downloadError); downloadError != nil {
		return hosting.BestEffortResult{Operation: downloadAvatarOperationConstant, Err: downloadError}
	}

	uploadRequest := client.request(executionContext).
		SetBody(avatarPayload{Image: base64.StdEncoding.EncodeToString(downloadResponse.Body())})

	uploadPath := userAvatarPathConstant
	if ownerKind == hosting.OrganizationOwnerKind {
		uploadRequest.SetPathParam(loginPathParameterConstant, login)
		uploadPath = organizationAvatarPathConstant
	} else {
		uploadRequest.SetHeader(sudoHeaderConstant, login)
	}

	uploadResponse, uploadError := uploadRequest.Post(uploadPath)
	return hosting.BestEffortResult{
		Operation: uploadAvatarOperationConstant,
		Err:       client.checkResponse(uploadAvatarOperationConstant, uploadResponse, uploadError),
	}
}
