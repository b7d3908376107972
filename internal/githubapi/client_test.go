package githubapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gh "github.com/google/go-github/v68/github"
	"github.com/stretchr/testify/require"
)

const (
	testOwnerConstant          = "octocat"
	testRepositoryConstant     = "hello-world"
	testPullRequestURLConstant = "https://github.com/octocat/hello-world/pull/7"
	testHeadBranchConstant     = "colab/auto-update"
	testBaseBranchConstant     = "main"
	testTitleConstant          = "automated update"
	testBodyConstant           = "automated pull request"
)

type stubPullRequestCreator struct {
	createdPullRequest *gh.PullRequest
	response           *gh.Response
	creationError      error
	recordedOwner      string
	recordedRepository string
	recordedPayload    *gh.NewPullRequest
}

func (creator *stubPullRequestCreator) Create(_ context.Context, owner string, repository string, pull *gh.NewPullRequest) (*gh.PullRequest, *gh.Response, error) {
	creator.recordedOwner = owner
	creator.recordedRepository = repository
	creator.recordedPayload = pull
	return creator.createdPullRequest, creator.response, creator.creationError
}

func testDetails() PullRequestDetails {
	return PullRequestDetails{Title: testTitleConstant, HeadBranch: testHeadBranchConstant, BaseBranch: testBaseBranchConstant, Body: testBodyConstant}
}

func githubResponseWithStatus(statusCode int) *gh.Response {
	return &gh.Response{Response: &http.Response{StatusCode: statusCode}}
}

func TestNewClientRequiresAccessToken(testInstance *testing.T) {
	client, creationError := NewClient("   ", "")
	require.ErrorIs(testInstance, creationError, ErrAccessTokenRequired)
	require.Nil(testInstance, client)
}

func TestNewClientConfiguresEnterpriseHost(testInstance *testing.T) {
	client, creationError := NewClient("token-value", "git.corp.example.com")
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, client)
}

func TestCreatePullRequestValidatesInputs(testInstance *testing.T) {
	client := &Client{pullRequests: &stubPullRequestCreator{}}

	testCases := []struct {
		name       string
		owner      string
		repository string
		details    PullRequestDetails
	}{
		{name: "missing_owner", repository: testRepositoryConstant, details: testDetails()},
		{name: "missing_repository", owner: testOwnerConstant, details: testDetails()},
		{name: "missing_title", owner: testOwnerConstant, repository: testRepositoryConstant, details: PullRequestDetails{HeadBranch: testHeadBranchConstant, BaseBranch: testBaseBranchConstant}},
		{name: "missing_head", owner: testOwnerConstant, repository: testRepositoryConstant, details: PullRequestDetails{Title: testTitleConstant, BaseBranch: testBaseBranchConstant}},
		{name: "missing_base", owner: testOwnerConstant, repository: testRepositoryConstant, details: PullRequestDetails{Title: testTitleConstant, HeadBranch: testHeadBranchConstant}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			_, creationError := client.CreatePullRequest(context.Background(), testCase.owner, testCase.repository, testCase.details)
			require.Error(testInstance, creationError)
			require.IsType(testInstance, InvalidInputError{}, creationError)
		})
	}
}

func TestCreatePullRequestReturnsResultOnCreated(testInstance *testing.T) {
	pullRequestNumber := 7
	pullRequestURL := testPullRequestURLConstant
	stubCreator := &stubPullRequestCreator{
		createdPullRequest: &gh.PullRequest{Number: &pullRequestNumber, HTMLURL: &pullRequestURL},
		response:           githubResponseWithStatus(http.StatusCreated),
	}
	client := &Client{pullRequests: stubCreator}

	result, creationError := client.CreatePullRequest(context.Background(), testOwnerConstant, testRepositoryConstant, testDetails())
	require.NoError(testInstance, creationError)
	require.Equal(testInstance, testPullRequestURLConstant, result.URL)
	require.Equal(testInstance, pullRequestNumber, result.Number)
	require.Equal(testInstance, http.StatusCreated, result.StatusCode)

	require.Equal(testInstance, testOwnerConstant, stubCreator.recordedOwner)
	require.Equal(testInstance, testRepositoryConstant, stubCreator.recordedRepository)
	require.Equal(testInstance, testHeadBranchConstant, *stubCreator.recordedPayload.Head)
	require.Equal(testInstance, testBaseBranchConstant, *stubCreator.recordedPayload.Base)
}

func TestCreatePullRequestSendsTokenHeaderAndJSONPayload(testInstance *testing.T) {
	accessToken := "ghp_wire_level_token"

	var recordedRequest *http.Request
	var recordedPayload map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		recordedRequest = request
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&recordedPayload))
		responseWriter.Header().Set("Content-Type", "application/json")
		responseWriter.WriteHeader(http.StatusCreated)
		_, writeError := responseWriter.Write([]byte(`{"number": 7, "html_url": "` + testPullRequestURLConstant + `"}`))
		require.NoError(testInstance, writeError)
	}))
	defer server.Close()

	githubClient := gh.NewClient(server.Client()).WithAuthToken(accessToken)
	serverBaseURL, parseError := url.Parse(server.URL + "/")
	require.NoError(testInstance, parseError)
	githubClient.BaseURL = serverBaseURL
	client := &Client{pullRequests: githubClient.PullRequests}

	result, creationError := client.CreatePullRequest(context.Background(), testOwnerConstant, testRepositoryConstant, testDetails())
	require.NoError(testInstance, creationError)
	require.Equal(testInstance, testPullRequestURLConstant, result.URL)
	require.Equal(testInstance, 7, result.Number)
	require.Equal(testInstance, http.StatusCreated, result.StatusCode)

	require.NotNil(testInstance, recordedRequest)
	require.Equal(testInstance, http.MethodPost, recordedRequest.Method)
	require.Equal(testInstance, "/repos/"+testOwnerConstant+"/"+testRepositoryConstant+"/pulls", recordedRequest.URL.Path)
	require.Equal(testInstance, "Bearer "+accessToken, recordedRequest.Header.Get("Authorization"))
	require.Empty(testInstance, recordedRequest.URL.RawQuery)

	require.Equal(testInstance, map[string]string{
		"title": testTitleConstant,
		"head":  testHeadBranchConstant,
		"base":  testBaseBranchConstant,
		"body":  testBodyConstant,
	}, recordedPayload)
}

func TestCreatePullRequestWrapsAPIFailure(testInstance *testing.T) {
	errorResponse := &gh.ErrorResponse{
		Response: &http.Response{StatusCode: http.StatusUnprocessableEntity},
		Message:  "Validation Failed",
		Errors:   []gh.Error{{Message: "A pull request already exists for octocat:colab/auto-update."}},
	}
	stubCreator := &stubPullRequestCreator{
		response:      githubResponseWithStatus(http.StatusUnprocessableEntity),
		creationError: errorResponse,
	}
	client := &Client{pullRequests: stubCreator}

	_, creationError := client.CreatePullRequest(context.Background(), testOwnerConstant, testRepositoryConstant, testDetails())
	require.Error(testInstance, creationError)

	pullRequestError, isPullRequestError := creationError.(PullRequestError)
	require.True(testInstance, isPullRequestError)
	require.Equal(testInstance, http.StatusUnprocessableEntity, pullRequestError.StatusCode)
	require.Contains(testInstance, pullRequestError.Message, "Validation Failed")
	require.Contains(testInstance, pullRequestError.Message, "already exists")
}

func TestCreatePullRequestHandlesMissingResponse(testInstance *testing.T) {
	stubCreator := &stubPullRequestCreator{creationError: context.DeadlineExceeded}
	client := &Client{pullRequests: stubCreator}

	_, creationError := client.CreatePullRequest(context.Background(), testOwnerConstant, testRepositoryConstant, testDetails())
	pullRequestError, isPullRequestError := creationError.(PullRequestError)
	require.True(testInstance, isPullRequestError)
	require.Equal(testInstance, 0, pullRequestError.StatusCode)
	require.NotEmpty(testInstance, pullRequestError.Message)
}
