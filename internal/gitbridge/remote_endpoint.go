package gitbridge

import (
	"fmt"
	"strings"
)

const (
	defaultRemoteHostConstant              = "github.com"
	httpsProtocolPrefixConstant            = "https://"
	pathSeparatorConstant                  = "/"
	gitSuffixConstant                      = ".git"
	userInfoSeparatorConstant              = ":"
	userInfoHostSeparatorConstant          = "@"
	endpointFieldErrorTemplateConstant     = "%s: %s"
	requiredValueMessageConstant           = "value required"
	endpointOwnerFieldNameConstant         = "owner"
	endpointRepositoryFieldNameConstant    = "repository"
	authenticatedURLCredentialErrTemplate  = "authenticated url: %w"
	endpointDisplayNameTemplateConstant    = "%s/%s"
	cloneURLTemplateConstant               = "%s%s%s%s%s%s%s"
	authenticatedCloneURLTemplateConstant  = "%s%s%s%s%s%s%s%s%s%s%s"
)

// RemoteEndpoint identifies a hosted repository by host, owner, and name.
type RemoteEndpoint struct {
	Host       string
	Owner      string
	Repository string
}

// EndpointValidationError indicates a required endpoint field was empty.
type EndpointValidationError struct {
	FieldName string
}

// Error describes the missing field.
func (validationError EndpointValidationError) Error() string {
	return fmt.Sprintf(endpointFieldErrorTemplateConstant, validationError.FieldName, requiredValueMessageConstant)
}

// NewRemoteEndpoint validates owner and repository and defaults the host to github.com.
func NewRemoteEndpoint(host string, owner string, repository string) (RemoteEndpoint, error) {
	trimmedHost := strings.TrimSpace(host)
	if len(trimmedHost) == 0 {
		trimmedHost = defaultRemoteHostConstant
	}

	trimmedOwner := strings.TrimSpace(owner)
	if len(trimmedOwner) == 0 {
		return RemoteEndpoint{}, EndpointValidationError{FieldName: endpointOwnerFieldNameConstant}
	}

	trimmedRepository := strings.TrimSuffix(strings.TrimSpace(repository), gitSuffixConstant)
	if len(trimmedRepository) == 0 {
		return RemoteEndpoint{}, EndpointValidationError{FieldName: endpointRepositoryFieldNameConstant}
	}

	return RemoteEndpoint{Host: trimmedHost, Owner: trimmedOwner, Repository: trimmedRepository}, nil
}

// DisplayName renders the endpoint as owner/repository for messages.
func (endpoint RemoteEndpoint) DisplayName() string {
	return fmt.Sprintf(endpointDisplayNameTemplateConstant, endpoint.Owner, endpoint.Repository)
}

// CloneURL returns the public HTTPS clone URL without credentials.
func (endpoint RemoteEndpoint) CloneURL() string {
	return fmt.Sprintf(
		cloneURLTemplateConstant,
		httpsProtocolPrefixConstant,
		endpoint.Host,
		pathSeparatorConstant,
		endpoint.Owner,
		pathSeparatorConstant,
		endpoint.Repository,
		gitSuffixConstant,
	)
}

// AuthenticatedCloneURL embeds the owner and credential into the URL's
// user-info segment for clone and push operations.
func (endpoint RemoteEndpoint) AuthenticatedCloneURL(credential *Credential) (string, error) {
	if credential == nil || len(credential.Token()) == 0 {
		return "", fmt.Errorf(authenticatedURLCredentialErrTemplate, ErrCredentialRequired)
	}

	return fmt.Sprintf(
		authenticatedCloneURLTemplateConstant,
		httpsProtocolPrefixConstant,
		endpoint.Owner,
		userInfoSeparatorConstant,
		credential.Token(),
		userInfoHostSeparatorConstant,
		endpoint.Host,
		pathSeparatorConstant,
		endpoint.Owner,
		pathSeparatorConstant,
		endpoint.Repository,
		gitSuffixConstant,
	), nil
}
