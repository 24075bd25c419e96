package driver

const (
	// EnsureDiscussionConstraintQuery asserts uniqueness of discussion ids.
	// IF NOT EXISTS makes the assertion idempotent, so an already-present
	// constraint is success rather than a swallowed error.
	EnsureDiscussionConstraintQuery = `
		CREATE CONSTRAINT discussion_id IF NOT EXISTS
		FOR (n:Node) REQUIRE n.id IS UNIQUE
	`

	// MergeDiscussionNodesQuery merges nodes by id, so re-running a
	// workspace's analysis does not duplicate nodes.
	MergeDiscussionNodesQuery = `
		UNWIND $nodes AS node
		MERGE (n:Node {id: node.id})
		SET n.SpaceId = node.spaceId,
			n.UserId = node.userId,
			n.Position = node.position,
			n.DiscussionText = node.text
	`

	// MergeSimilarityEdgesQuery merges one undirected edge per unordered
	// pair and sets its score, keeping edge writes idempotent.
	MergeSimilarityEdgesQuery = `
		UNWIND $edges AS edge
		MATCH (s:Node {id: edge.source}), (t:Node {id: edge.target})
		MERGE (s)-[r:is_similar]-(t)
		SET r.score = edge.score
	`

	// ClearGraphQuery deletes a workspace's entire prior graph.
	ClearGraphQuery = `
		MATCH (n)
		DETACH DELETE n
	`

	// GetSimilarityEdgesQuery returns each stored edge exactly once.
	GetSimilarityEdgesQuery = `
		MATCH (s:Node)-[r:is_similar]-(t:Node)
		WHERE s.id < t.id
		RETURN s.id AS source, t.id AS target, r.score AS score
	`

	// WriteCommunitiesQuery records the detected community label on every
	// assigned node.
	WriteCommunitiesQuery = `
		UNWIND $assignments AS row
		MATCH (n:Node {id: row.id})
		SET n.community = row.community
	`

	// GetCommunityMembersQuery returns id, position and text of every
	// connected node carrying a community label, one entry per node.
	// DISTINCT inside the collects keeps repeated message texts from
	// over-weighting a community's summary.
	GetCommunityMembersQuery = `
		MATCH (n:Node)-[:is_similar]-()
		WHERE n.community IS NOT NULL
		WITH DISTINCT n
		RETURN n.community AS community,
			COLLECT(DISTINCT n.id) AS ids,
			COLLECT(n.Position) AS positions,
			COLLECT(DISTINCT n.DiscussionText) AS texts
	`
)
