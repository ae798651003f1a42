// Package vectordb is the database-agnostic contract for vector search.
//
// Applications depend on Service and the filter types here; a backend
// adapter (qdrant.Adapter) translates them to its own wire format.
//
//	type SearchService struct {
//	    db vectordb.Service
//	}
//
//	results, err := s.db.Search(ctx, vectordb.SearchRequest{
//	    CollectionName: "documents",
//	    Vector:         vector,
//	    TopK:           10,
//	    Filters: vectordb.NewFilterSet(
//	        vectordb.Must(vectordb.NewMatch("status", "published")),
//	        vectordb.MustNot(vectordb.NewUserMatch("archived", true)),
//	    ),
//	})
//
// User-defined metadata lives under the UserPayloadPrefix key of the payload;
// the NewUserXxx constructors address it.
package vectordb
