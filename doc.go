// Package ragdex provides an in-process client for the ragdex
// retrieval engine: corpus management with a metadata-validated import
// gate, single-corpus semantic queries, and citation-annotated search
// across every corpus a provider knows.
//
// A client wraps one retrieval provider. Against a hosted RAG corpus
// API:
//
//	client, err := ragdex.New(ctx,
//	    ragdex.WithRagAPI("https://rag.example.com", os.Getenv("RAG_API_KEY")),
//	)
//
// Or against Postgres with the pgvector extension, embedding locally:
//
//	client, err := ragdex.New(ctx,
//	    ragdex.WithPgvector(os.Getenv("DATABASE_URL")),
//	    ragdex.WithOpenAIEmbedder(ragdex.OpenAIEmbedderConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    }),
//	)
//
// Imports are gated on the metadata schema (board, grade, and subject
// are required); search fans out across corpora and merges ranked,
// cited passages:
//
//	report, err := client.Corpora().Import(ctx, corpusID, files)
//	res, err := client.Search().All(ctx, "photosynthesis in plants",
//	    ragdex.WithFilter(map[string]string{"grade": "10", "subject": "Science"}),
//	)
//	for _, hit := range res.Results {
//	    fmt.Println(hit.Citation, hit.Text)
//	}
package ragdex
