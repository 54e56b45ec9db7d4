package config

// ApplyDefaults fills every zero-valued field with its default. Paths are
// expanded after defaulting so "~" works in user-supplied values too.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8000
	}

	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "~/.kotae/kotae.db"
	}
	if c.Storage.UploadsDir == "" {
		c.Storage.UploadsDir = "~/.kotae/uploads"
	}
	c.Storage.DatabasePath = expandPath(c.Storage.DatabasePath)
	c.Storage.UploadsDir = expandPath(c.Storage.UploadsDir)

	if c.Gemini.APIKeyEnv == "" {
		c.Gemini.APIKeyEnv = "LLM_API_KEY"
	}
	if c.Gemini.EmbedModel == "" {
		c.Gemini.EmbedModel = "text-embedding-004"
	}
	if c.Gemini.GenModel == "" {
		c.Gemini.GenModel = "gemini-2.0-flash"
	}
	if c.Gemini.Dimensions == 0 {
		c.Gemini.Dimensions = 768
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = 30
	}

	if c.Chroma.URL == "" {
		c.Chroma.URL = "http://localhost:8001"
	}
	if c.Chroma.Collection == "" {
		c.Chroma.Collection = "rag_docs"
	}
	if c.Chroma.TimeoutSeconds == 0 {
		c.Chroma.TimeoutSeconds = 30
	}

	if c.Search.TopK == 0 {
		c.Search.TopK = 3
	}
	if c.Search.MaxChunkSize == 0 {
		c.Search.MaxChunkSize = 400
	}
	if c.Search.ChunkOverlap == 0 {
		c.Search.ChunkOverlap = 50
	}
	if c.Search.SentenceDelimiter == "" {
		c.Search.SentenceDelimiter = "."
	}

	c.Ranking.ApplyDefaults()

	if len(c.Watch.Extensions) == 0 {
		c.Watch.Extensions = []string{".txt", ".md", ".pdf", ".docx"}
	}
	for i, dir := range c.Watch.Directories {
		c.Watch.Directories[i] = expandPath(dir)
	}

	if c.Reindex.PauseEvery == 0 {
		c.Reindex.PauseEvery = 10
	}
	if c.Reindex.PauseSeconds == 0 {
		c.Reindex.PauseSeconds = 5
	}
}
