package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if out := args.Get(0); out != nil {
		return out.(*sns.PublishOutput), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestSNSClient_PublishJSON(t *testing.T) {
	api := new(mockSNS)
	client := NewSNSClientWithAPI(api)

	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		var body map[string]interface{}
		if err := json.Unmarshal([]byte(awssdk.ToString(in.Message)), &body); err != nil {
			return false
		}
		attr, ok := in.MessageAttributes["eventName"]
		return awssdk.ToString(in.TopicArn) == "arn:aws:sns:eu-north-1:123:events" &&
			body["name"] == "quiz_completed" &&
			ok && awssdk.ToString(attr.StringValue) == "quiz_completed"
	})).Return(&sns.PublishOutput{MessageId: awssdk.String("msg-1")}, nil)

	id, err := client.PublishJSON(context.Background(), "arn:aws:sns:eu-north-1:123:events",
		map[string]string{"name": "quiz_completed"},
		map[string]string{"eventName": "quiz_completed"})

	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	api.AssertExpectations(t)
}

func TestSNSClient_PublishJSON_SkipsEmptyAttributes(t *testing.T) {
	api := new(mockSNS)
	client := NewSNSClientWithAPI(api)

	var published *sns.PublishInput
	api.On("Publish", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { published = args.Get(1).(*sns.PublishInput) }).
		Return(&sns.PublishOutput{MessageId: awssdk.String("msg-2")}, nil)

	_, err := client.PublishJSON(context.Background(), "arn",
		map[string]string{"name": "loan_application_started"},
		map[string]string{"eventName": "loan_application_started", "sessionId": ""})
	require.NoError(t, err)
	require.NotNil(t, published)
	assert.Len(t, published.MessageAttributes, 1)
	assert.NotContains(t, published.MessageAttributes, "sessionId")

	_, err = client.PublishJSON(context.Background(), "arn", map[string]string{}, map[string]string{"sessionId": ""})
	require.NoError(t, err)
	assert.Nil(t, published.MessageAttributes)
}

func TestSNSClient_PublishJSON_Error(t *testing.T) {
	api := new(mockSNS)
	client := NewSNSClientWithAPI(api)
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, fmt.Errorf("throttled"))

	_, err := client.PublishJSON(context.Background(), "arn", map[string]string{}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestSNSClient_PublishJSON_Unmarshalable(t *testing.T) {
	client := NewSNSClientWithAPI(new(mockSNS))
	_, err := client.PublishJSON(context.Background(), "arn", func() {}, nil)
	assert.Error(t, err)
}
