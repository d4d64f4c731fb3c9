package twilio

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type fakeAPI struct {
	mu     sync.Mutex
	calls  int
	params *twilioApi.CreateMessageParams
	sid    *string
	err    error
}

func (f *fakeAPI) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &twilioApi.ApiV2010Message{Sid: f.sid}, nil
}

func Test_SendMessageReturnsSid(t *testing.T) {
	sid := "SM123"
	api := &fakeAPI{sid: &sid}
	c := &Client{api: api}

	got, err := c.SendMessage("+100", "+200", "hello")
	assert.NoError(t, err)
	assert.Equal(t, "SM123", got)
	assert.Equal(t, "+200", *api.params.To)
	assert.Equal(t, "hello", *api.params.Body)
}

func Test_SendMessageRejectsEmptyParameters(t *testing.T) {
	c := &Client{api: &fakeAPI{}}

	_, err := c.SendMessage("", "+200", "hello")
	assert.Error(t, err)
	assert.True(t, twilioErr.Has(err))
}

func Test_SendMessageWrapsAPIErrors(t *testing.T) {
	c := &Client{api: &fakeAPI{err: errors.New("unreachable")}}

	_, err := c.SendMessage("+100", "+200", "hello")
	assert.Error(t, err)
	assert.True(t, twilioErr.Has(err))
}

func Test_SendMessageConcurrently(t *testing.T) {
	sid := "SM123"
	api := &fakeAPI{sid: &sid}
	c := &Client{api: api}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.SendMessage("+100", "+200", "hello")
			assert.NoError(t, err)
			assert.Equal(t, "SM123", got)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, api.calls)
}

func Test_ClientIsBuiltOnce(t *testing.T) {
	c := &Client{AccountSid: "AC1", Token: "tok"}

	first := c.client()
	assert.NotNil(t, first)
	assert.Same(t, first, c.client())
}
