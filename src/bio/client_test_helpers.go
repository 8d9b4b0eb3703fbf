package bio

// SetAPIURL sets the Wikipedia API URL. Only useful for tests.
func (c *Client) SetAPIURL(apiURL string) {
	c.apiURL = apiURL
}
