package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v68/github"
)

const (
	accessTokenRequiredMessageConstant       = "access token must be provided"
	ownerFieldNameConstant                   = "owner"
	repositoryFieldNameConstant              = "repository"
	titleFieldNameConstant                   = "title"
	headBranchFieldNameConstant              = "head branch"
	baseBranchFieldNameConstant              = "base branch"
	requiredValueMessageConstant             = "value required"
	invalidInputErrorTemplateConstant        = "%s: %s"
	pullRequestErrorTemplateConstant         = "pull request creation failed with status %d: %s"
	enterpriseBaseURLTemplateConstant        = "https://%s/api/v3/"
	enterpriseUploadURLTemplateConstant      = "https://%s/api/uploads/"
	enterpriseURLConfigurationErrTemplate    = "enterprise api urls: %w"
	unavailableResponseDetailMessageConstant = "no response received"
)

// ErrAccessTokenRequired indicates the client was constructed without a token.
var ErrAccessTokenRequired = errors.New(accessTokenRequiredMessageConstant)

// InvalidInputError surfaces validation issues for pull request inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// PullRequestError reports a failed pull request creation with the HTTP
// status code and a sanitized message extracted from the response body.
type PullRequestError struct {
	StatusCode int
	Message    string
}

// Error describes the pull request failure.
func (pullRequestError PullRequestError) Error() string {
	return fmt.Sprintf(pullRequestErrorTemplateConstant, pullRequestError.StatusCode, pullRequestError.Message)
}

// PullRequestDetails carries the payload for pull request creation.
type PullRequestDetails struct {
	Title      string
	HeadBranch string
	BaseBranch string
	Body       string
}

// PullRequestResult captures the outcome of a successful creation call.
type PullRequestResult struct {
	URL        string
	Number     int
	StatusCode int
}

// pullRequestCreator is the slice of the go-github client exercised here,
// extracted so tests can substitute a recording stub.
type pullRequestCreator interface {
	Create(executionContext context.Context, owner string, repository string, pull *gh.NewPullRequest) (*gh.PullRequest, *gh.Response, error)
}

// Client creates pull requests on GitHub or GitHub Enterprise.
type Client struct {
	pullRequests pullRequestCreator
}

// NewClient authenticates a go-github client with the supplied token. A
// non-empty enterpriseHost switches the API base URLs to that host.
func NewClient(accessToken string, enterpriseHost string) (*Client, error) {
	trimmedToken := strings.TrimSpace(accessToken)
	if len(trimmedToken) == 0 {
		return nil, ErrAccessTokenRequired
	}

	githubClient := gh.NewClient(nil).WithAuthToken(trimmedToken)

	trimmedEnterpriseHost := strings.TrimSpace(enterpriseHost)
	if len(trimmedEnterpriseHost) > 0 {
		enterpriseBaseURL := fmt.Sprintf(enterpriseBaseURLTemplateConstant, trimmedEnterpriseHost)
		enterpriseUploadURL := fmt.Sprintf(enterpriseUploadURLTemplateConstant, trimmedEnterpriseHost)

		enterpriseClient, enterpriseError := githubClient.WithEnterpriseURLs(enterpriseBaseURL, enterpriseUploadURL)
		if enterpriseError != nil {
			return nil, fmt.Errorf(enterpriseURLConfigurationErrTemplate, enterpriseError)
		}
		githubClient = enterpriseClient
	}

	return &Client{pullRequests: githubClient.PullRequests}, nil
}

// CreatePullRequest issues a single authenticated POST to the pull request
// creation endpoint. HTTP 201 yields a PullRequestResult; any other
// outcome yields a PullRequestError carrying the status code and a
// sanitized message.
func (client *Client) CreatePullRequest(executionContext context.Context, owner string, repository string, details PullRequestDetails) (PullRequestResult, error) {
	if validationError := validatePullRequestInputs(owner, repository, details); validationError != nil {
		return PullRequestResult{}, validationError
	}

	pullRequestTitle := details.Title
	pullRequestHead := details.HeadBranch
	pullRequestBase := details.BaseBranch
	pullRequestBody := details.Body

	newPullRequest := &gh.NewPullRequest{
		Title: &pullRequestTitle,
		Head:  &pullRequestHead,
		Base:  &pullRequestBase,
		Body:  &pullRequestBody,
	}

	createdPullRequest, response, creationError := client.pullRequests.Create(executionContext, owner, repository, newPullRequest)
	if creationError != nil {
		return PullRequestResult{}, PullRequestError{
			StatusCode: responseStatusCode(response),
			Message:    sanitizedFailureMessage(creationError),
		}
	}

	return PullRequestResult{
		URL:        createdPullRequest.GetHTMLURL(),
		Number:     createdPullRequest.GetNumber(),
		StatusCode: responseStatusCode(response),
	}, nil
}

func validatePullRequestInputs(owner string, repository string, details PullRequestDetails) error {
	if len(strings.TrimSpace(owner)) == 0 {
		return InvalidInputError{FieldName: ownerFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(repository)) == 0 {
		return InvalidInputError{FieldName: repositoryFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(details.Title)) == 0 {
		return InvalidInputError{FieldName: titleFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(details.HeadBranch)) == 0 {
		return InvalidInputError{FieldName: headBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if len(strings.TrimSpace(details.BaseBranch)) == 0 {
		return InvalidInputError{FieldName: baseBranchFieldNameConstant, Message: requiredValueMessageConstant}
	}
	return nil
}

func responseStatusCode(response *gh.Response) int {
	if response == nil {
		return 0
	}
	return response.StatusCode
}

// sanitizedFailureMessage extracts the API error message without echoing
// request URLs, which could carry user-info segments on misconfiguration.
func sanitizedFailureMessage(creationError error) string {
	var errorResponse *gh.ErrorResponse
	if errors.As(creationError, &errorResponse) {
		messageParts := []string{}
		if len(errorResponse.Message) > 0 {
			messageParts = append(messageParts, errorResponse.Message)
		}
		for _, errorDetail := range errorResponse.Errors {
			if len(errorDetail.Message) > 0 {
				messageParts = append(messageParts, errorDetail.Message)
			}
		}
		if len(messageParts) > 0 {
			return strings.Join(messageParts, "; ")
		}
		if errorResponse.Response != nil {
			return http.StatusText(errorResponse.Response.StatusCode)
		}
		return unavailableResponseDetailMessageConstant
	}
	return creationError.Error()
}
