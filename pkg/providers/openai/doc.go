// Package openai implements the OpenAI chat-completions adapter.
//
//	provider, err := openai.NewProvider(providers.ProviderConfig{
//	    BaseURL: "https://api.openai.com/v1",
//	    APIKey:  apiKey,
//	    Timeout: 60 * time.Second,
//	})
//	if err != nil {
//	    return err
//	}
//	defer provider.Close()
//
//	resp, err := provider.SendCompletion(ctx, &providers.CompletionRequest{
//	    Model: "gpt-4.1-nano",
//	    Messages: []providers.Message{
//	        {Role: providers.RoleSystem, Content: instruction},
//	        {Role: providers.RoleUser, Content: pageText},
//	    },
//	})
//
// Requests go to POST {base_url}/chat/completions with bearer authentication.
// HealthCheck calls GET {base_url}/models. Only the first choice is used; a
// response without choices is a *providers.ParseError.
package openai
