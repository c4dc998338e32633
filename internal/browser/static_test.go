package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cardHTML = `<html><body>
<ul>
  <li class="card"><h3 class="title"> Web Developer </h3><a class="link" href="/jobs/view/1?trk=x">open</a></li>
  <li class="card"><h3 class="title"><span>UI</span> Designer</h3></li>
</ul>
<button class="more">See more jobs</button>
</body></html>`

func TestStaticPageNavigateAndFind(t *testing.T) {
	ctx := context.Background()
	page := NewStaticPage(map[string]string{"https://example.test/search": cardHTML})

	require.NoError(t, page.Navigate(ctx, "https://example.test/search"))
	assert.Equal(t, "https://example.test/search", page.URL())

	cards, err := page.FindAll("li.card")
	require.NoError(t, err)
	require.Len(t, cards, 2)

	title, err := cards[0].Find(".title")
	require.NoError(t, err)
	text, _ := title.Text()
	assert.Equal(t, " Web Developer ", text)

	link, err := cards[0].Find("a.link")
	require.NoError(t, err)
	href, err := link.Attribute("href")
	require.NoError(t, err)
	assert.Equal(t, "/jobs/view/1?trk=x", href)

	_, err = link.Attribute("data-missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cards[1].Find("a.link")
	assert.ErrorIs(t, err, ErrNotFound)

	html, err := cards[1].Find(".title")
	require.NoError(t, err)
	inner, _ := html.InnerHTML()
	assert.Equal(t, "<span>UI</span> Designer", inner)
}

func TestStaticPageWaitForAndClick(t *testing.T) {
	ctx := context.Background()
	page := NewStaticPage(map[string]string{"https://example.test/search": cardHTML})
	require.NoError(t, page.Navigate(ctx, "https://example.test/search"))

	btn, err := page.WaitFor(ctx, "button.more", time.Second)
	require.NoError(t, err)
	require.NoError(t, btn.Click(ctx))
	assert.Equal(t, []string{"button.more"}, page.Clicks)

	_, err = page.WaitFor(ctx, "button.absent", time.Second)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStaticPageUnknownURL(t *testing.T) {
	page := NewStaticPage(nil)
	err := page.Navigate(context.Background(), "https://example.test/missing")
	assert.Error(t, err)

	cards, err := page.FindAll("li")
	assert.NoError(t, err)
	assert.Empty(t, cards)
}

func TestPacerZeroValueDoesNotSleep(t *testing.T) {
	start := time.Now()
	require.NoError(t, Pacer{}.Pause(context.Background()))
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}

func TestSleepHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
}
