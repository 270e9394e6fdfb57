package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/poiesic/graphit"
	"github.com/poiesic/graphit/core"
)

var dbPath = flag.String("db", "./graphit_db", "path to the BadgerDB database directory")

type seedEntity struct {
	Type       core.EntityType
	Name       string
	Properties map[string]string
}

type seedRelation struct {
	Type core.RelationType
	From string
	To   string
}

var entities = []seedEntity{
	{core.EntityPerson, "Tom Hanks", map[string]string{"born": "1956", "oscars": "2"}},
	{core.EntityPerson, "Meg Ryan", map[string]string{"born": "1961"}},
	{core.EntityPerson, "Robin Wright", map[string]string{"born": "1966"}},
	{core.EntityPerson, "Robert Zemeckis", map[string]string{"born": "1952"}},
	{core.EntityPerson, "Nora Ephron", map[string]string{"born": "1941"}},
	{core.EntityPerson, "Steven Spielberg", map[string]string{"born": "1946", "oscars": "3"}},
	{core.EntityPerson, "Matt Damon", map[string]string{"born": "1970"}},
	{core.EntityMovie, "Forrest Gump", map[string]string{"released": "1994"}},
	{core.EntityMovie, "Sleepless in Seattle", map[string]string{"released": "1993"}},
	{core.EntityMovie, "You've Got Mail", map[string]string{"released": "1998"}},
	{core.EntityMovie, "Saving Private Ryan", map[string]string{"released": "1998"}},
	{core.EntityMovie, "Cast Away", map[string]string{"released": "2000"}},
	{core.EntityStudio, "Paramount Pictures", map[string]string{"founded": "1912"}},
	{core.EntityStudio, "DreamWorks", map[string]string{"founded": "1994"}},
	{core.EntityLocation, "Hollywood", map[string]string{"state": "California"}},
}

var relations = []seedRelation{
	{core.RelationActedIn, "Tom Hanks", "Forrest Gump"},
	{core.RelationActedIn, "Robin Wright", "Forrest Gump"},
	{core.RelationActedIn, "Tom Hanks", "Sleepless in Seattle"},
	{core.RelationActedIn, "Meg Ryan", "Sleepless in Seattle"},
	{core.RelationActedIn, "Tom Hanks", "You've Got Mail"},
	{core.RelationActedIn, "Meg Ryan", "You've Got Mail"},
	{core.RelationActedIn, "Tom Hanks", "Saving Private Ryan"},
	{core.RelationActedIn, "Matt Damon", "Saving Private Ryan"},
	{core.RelationActedIn, "Tom Hanks", "Cast Away"},
	{core.RelationDirected, "Robert Zemeckis", "Forrest Gump"},
	{core.RelationDirected, "Robert Zemeckis", "Cast Away"},
	{core.RelationDirected, "Nora Ephron", "Sleepless in Seattle"},
	{core.RelationDirected, "Nora Ephron", "You've Got Mail"},
	{core.RelationDirected, "Steven Spielberg", "Saving Private Ryan"},
	{core.RelationProducedBy, "Forrest Gump", "Paramount Pictures"},
	{core.RelationProducedBy, "Saving Private Ryan", "DreamWorks"},
	{core.RelationLocatedIn, "Paramount Pictures", "Hollywood"},
	{core.RelationKnows, "Tom Hanks", "Steven Spielberg"},
}

func main() {
	flag.Parse()

	db, err := graphit.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	ctx := context.Background()
	graph := db.GraphRepository()

	toUpsert := make([]*core.Entity, len(entities))
	for i, seed := range entities {
		toUpsert[i] = &core.Entity{
			Type:       seed.Type,
			Name:       seed.Name,
			Properties: seed.Properties,
			Source:     "seeder",
			Confidence: 1.0,
		}
	}
	if _, err := graph.UpsertEntities(ctx, toUpsert...); err != nil {
		panic(err)
	}

	relationRecords := make([]*core.Relation, len(relations))
	for i, seed := range relations {
		relationRecords[i] = &core.Relation{
			Type:       seed.Type,
			FromEntity: seed.From,
			ToEntity:   seed.To,
			Source:     "seeder",
			Confidence: 1.0,
		}
	}
	if _, err := graph.UpsertRelations(ctx, relationRecords...); err != nil {
		panic(err)
	}

	// Index the seeded entities so search works immediately
	searcher, err := db.NewSearcher()
	if err != nil {
		panic(err)
	}
	if err := searcher.IndexEntities(ctx, toUpsert); err != nil {
		slog.Warn("indexing seeded entities failed; search will miss them", "err", err)
		os.Exit(1)
	}

	slog.Info("seeded demo graph", "entities", len(toUpsert), "relations", len(relationRecords), "db", *dbPath)
}
