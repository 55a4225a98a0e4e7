package game

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKillValue(t *testing.T) {
	catalog := DefaultCatalog()

	t.Run("starting creatures", func(t *testing.T) {
		require.Equal(t, 1242, catalog.KillValue("Titan"))
		require.Equal(t, 246, catalog.KillValue("Angel"))
		require.Equal(t, 122, catalog.KillValue("Centaur"))
		require.Equal(t, 124, catalog.KillValue("Gargoyle"))
		require.Equal(t, 121, catalog.KillValue("Ogre"))
	})

	t.Run("rangestrikers and magic missiles", func(t *testing.T) {
		require.Equal(t, 10*9*3+4+5, catalog.KillValue("Dragon"))
		require.Equal(t, 10*5*4+2+5+4, catalog.KillValue("Warlock"))
	})

	t.Run("per-player titan names", func(t *testing.T) {
		require.Equal(t, catalog.KillValue("Titan"), catalog.KillValue("Titan-4"))
		require.Equal(t, TitanName, catalog.Canonical("Titan-4"))
		require.Equal(t, "Ogre", catalog.Canonical("Ogre"))
	})

	t.Run("unknown creature", func(t *testing.T) {
		require.Equal(t, 0, catalog.KillValue("Balrog"))
		_, ok := catalog.Creature("Balrog")
		require.False(t, ok)
	})

	t.Run("lords", func(t *testing.T) {
		require.True(t, catalog.IsLord("Angel"))
		require.True(t, catalog.IsLord("Titan"))
		require.False(t, catalog.IsLord("Ogre"))
	})

	t.Run("starting lords put the titan first", func(t *testing.T) {
		lords, err := catalog.StartingLords()

		require.NoError(t, err)
		require.Equal(t, [2]string{"Titan", "Angel"}, lords)
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Run("small table", func(t *testing.T) {
		catalog, err := LoadCatalog(strings.NewReader(`
creatures:
  - name: Ogre
    power: 6
    skill: 2
  - name: Gargoyle
    power: 4
    skill: 3
    flies: true
`))

		require.NoError(t, err)
		require.Equal(t, []string{"Gargoyle", "Ogre"}, catalog.Names())
		require.Equal(t, 124, catalog.KillValue("Gargoyle"))
	})

	t.Run("default table holds every creature", func(t *testing.T) {
		require.Len(t, DefaultCatalog().Names(), 24)
	})

	t.Run("invalid tables", func(t *testing.T) {
		tables := map[string]string{
			"empty":     "creatures: []",
			"unnamed":   "creatures:\n  - power: 6\n",
			"duplicate": "creatures:\n  - name: Ogre\n  - name: Ogre\n",
			"malformed": "creatures: {",
		}
		for name, table := range tables {
			_, err := LoadCatalog(strings.NewReader(table))
			require.Error(t, err, name)
		}
	})

	t.Run("rules take their lords from the table", func(t *testing.T) {
		catalog, err := LoadCatalog(strings.NewReader(`
creatures:
  - {name: Queen, power: 6, skill: 4, lord: true, starting: true}
  - {name: King, power: 6, skill: 4, lord: true, titan: true, starting: true}
  - {name: Ogre, power: 6, skill: 2}
`))
		require.NoError(t, err)

		rules, err := NewCatalogRules(catalog)

		require.NoError(t, err)
		require.Equal(t, [2]string{"King", "Queen"}, rules.Lords())
		require.True(t, IsStartingLord(rules, "Queen"))
		require.Equal(t, 8, rules.InitialHeight())
	})

	t.Run("starting creatures must be two lords", func(t *testing.T) {
		tables := map[string]string{
			"one lord": "creatures:\n  - {name: King, lord: true, starting: true}\n",
			"commoner": "creatures:\n  - {name: King, lord: true, starting: true}\n  - {name: Ogre, starting: true}\n",
			"no lords": "creatures:\n  - {name: Ogre}\n",
		}
		for name, table := range tables {
			catalog, err := LoadCatalog(strings.NewReader(table))
			require.NoError(t, err, name)
			_, err = NewCatalogRules(catalog)
			require.Error(t, err, name)
		}
	})
}

func TestEventType(t *testing.T) {
	t.Run("round trip through names", func(t *testing.T) {
		for typ := StartEvent; typ <= EliminateEvent; typ++ {
			parsed, err := ParseEventType(typ.String())
			require.NoError(t, err)
			require.Equal(t, typ, parsed)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := ParseEventType("teleport")
		require.Error(t, err)
		require.Equal(t, "EventType(42)", EventType(42).String())
	})

	t.Run("json uses names", func(t *testing.T) {
		var ev Event
		err := json.Unmarshal([]byte(`{"type":"split","player":"Red","turn":1,"marker":"Rd01","other":"Rd02","height":4}`), &ev)

		require.NoError(t, err)
		require.Equal(t, SplitEvent, ev.Type)
		require.Equal(t, "Rd02", ev.Other)

		data, err := json.Marshal(Event{Type: RemoveEvent, Marker: "Rd01", Creatures: []string{"Ogre"}})
		require.NoError(t, err)
		require.JSONEq(t, `{"type":"remove","player":"","turn":0,"marker":"Rd01","creatures":["Ogre"]}`, string(data))
	})

	t.Run("non-string json type", func(t *testing.T) {
		var ev Event
		require.Error(t, json.Unmarshal([]byte(`{"type":3}`), &ev))
	})
}
