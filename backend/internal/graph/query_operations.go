package graph

import (
	"context"
	"fmt"
)

// ============================================================================
// Read Queries
// ============================================================================

const templesByDeityQuery = `
	MATCH (t:Temple)-[:DEDICATED_TO]->(d:Deity)
	WHERE any(s IN $substrings WHERE d.name CONTAINS s)
	RETURN t.name AS temple, d.name AS entity
	ORDER BY temple, entity
`

const templesByStyleQuery = `
	MATCH (t:Temple)-[:HAS_STYLE]->(:ArchitecturalStyle {name: $style})
	RETURN t.name AS temple
	ORDER BY temple
`

const templesByScriptureQuery = `
	MATCH (t:Temple)-[:MENTIONED_IN]->(sc:Scripture)
	WHERE sc.name CONTAINS $fragment
	RETURN t.name AS temple, sc.name AS entity
	ORDER BY temple, entity
`

const templesInRegionQuery = `
	MATCH (t:Temple)-[:LOCATED_IN]->(:Region {name: $region})
	RETURN t.name AS temple
	ORDER BY temple
`

// TemplesByDeity lists temples dedicated to a deity whose name contains any of substrings
func (r *Repository) TemplesByDeity(ctx context.Context, substrings []string) ([]TempleLink, error) {
	if len(substrings) == 0 {
		return []TempleLink{}, nil
	}
	links, err := r.queryLinks(ctx, templesByDeityQuery, map[string]interface{}{
		"substrings": substrings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query temples by deity: %w", err)
	}
	return links, nil
}

// TemplesByStyle lists temples with the given architectural style
func (r *Repository) TemplesByStyle(ctx context.Context, style string) ([]string, error) {
	names, err := r.queryNames(ctx, templesByStyleQuery, map[string]interface{}{
		"style": style,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query temples by style: %w", err)
	}
	return names, nil
}

// TemplesByScripture lists temples mentioned in a scripture whose name contains fragment
func (r *Repository) TemplesByScripture(ctx context.Context, fragment string) ([]TempleLink, error) {
	links, err := r.queryLinks(ctx, templesByScriptureQuery, map[string]interface{}{
		"fragment": fragment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query temples by scripture: %w", err)
	}
	return links, nil
}

// TemplesInRegion lists temples located in the named region
func (r *Repository) TemplesInRegion(ctx context.Context, region string) ([]string, error) {
	names, err := r.queryNames(ctx, templesInRegionQuery, map[string]interface{}{
		"region": region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query temples by region: %w", err)
	}
	return names, nil
}

func (r *Repository) queryLinks(ctx context.Context, query string, params map[string]interface{}) ([]TempleLink, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	links := []TempleLink{}
	for result.Next(ctx) {
		record := result.Record()
		links = append(links, TempleLink{
			Temple: getStringFromRecord(record, "temple"),
			Entity: getStringFromRecord(record, "entity"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return links, nil
}

func (r *Repository) queryNames(ctx context.Context, query string, params map[string]interface{}) ([]string, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for result.Next(ctx) {
		names = append(names, getStringFromRecord(result.Record(), "temple"))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
