package predict

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreatureList(t *testing.T) {
	list := func() CreatureList {
		l := CreatureList{
			NewCreatureInfo("Ogre", false, true),
			NewCreatureInfo("Centaur", true, true),
			NewCreatureInfo("Ogre", true, false),
			NewCreatureInfo("Centaur", false, true),
		}
		l.Sort()
		return l
	}

	t.Run("sorting by type then certain first", func(t *testing.T) {
		require.Equal(t, "Centaur Centaur? Ogre Ogre?", list().String())
	})

	t.Run("splitting into certain and uncertain", func(t *testing.T) {
		l := list()
		require.Equal(t, []string{"Centaur", "Ogre"}, l.Certain().Names())
		require.Equal(t, []string{"Centaur", "Ogre"}, l.Uncertain().Names())
		require.Equal(t, 2, l.Count("Ogre"))
		require.True(t, l.Contains("Ogre"))
		require.False(t, l.Contains("Titan"))
	})

	t.Run("removing a certain creature", func(t *testing.T) {
		l := list()
		out, ci := l.RemoveCertain("Ogre")

		require.NotNil(t, ci)
		require.True(t, ci.Certain())
		require.False(t, ci.AtSplit(), "The certain Ogre was gained after the split")
		require.Equal(t, "Centaur Centaur? Ogre?", out.String())
		require.Equal(t, "Centaur Centaur? Ogre Ogre?", l.String(), "The input list should be untouched")
	})

	t.Run("removing a type with no certain entry", func(t *testing.T) {
		l := CreatureList{NewCreatureInfo("Lion", false, true)}
		out, ci := l.RemoveCertain("Lion")

		require.Nil(t, ci)
		require.Len(t, out, 1)
	})

	t.Run("subtracting one entry per matching type", func(t *testing.T) {
		other := CreatureList{NewCreatureInfo("Ogre", false, false), NewCreatureInfo("Troll", true, true)}

		require.Equal(t, "Centaur Centaur? Ogre?", list().Subtract(other).String())
	})

	t.Run("cloning copies records", func(t *testing.T) {
		l := list()
		c := l.Clone()
		c[1].confirm()

		require.False(t, l[1].Certain())
		require.True(t, c[1].Certain())
	})
}
