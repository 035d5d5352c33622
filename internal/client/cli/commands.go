package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

func (a *App) showFeed() {
	posts := a.feed.Posts()
	if len(posts) == 0 {
		fmt.Fprintln(a.out, "The feed is empty. Try 'refresh'.")
		return
	}

	for _, p := range posts {
		fmt.Fprintf(a.out, "#%d %s — %s\n", p.ID, p.UserName, p.CreatedAt.Local().Format("2006-01-02 15:04"))
		if p.Text != "" {
			fmt.Fprintln(a.out, "  "+p.Text)
		}
		for _, path := range p.Images {
			fmt.Fprintln(a.out, "  [image] "+a.config.BaseURL+path)
		}
		fmt.Fprintf(a.out, "  %d like(s)\n", len(p.Likes))
		for _, c := range p.Comments {
			fmt.Fprintf(a.out, "  > [%d] %s: %s\n", c.ID, c.UserName, c.Text)
		}
	}
}

func (a *App) refresh(ctx context.Context) {
	if err := a.feed.Refresh(ctx); err != nil {
		fmt.Fprintln(a.out, "refresh failed:", err)
		return
	}
	a.showFeed()
}

func (a *App) loadMore(ctx context.Context) {
	fetched, err := a.feed.LoadMore(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "load failed:", err)
		return
	}
	if !fetched {
		fmt.Fprintln(a.out, "No more posts.")
		return
	}
	a.showFeed()
}

func (a *App) createPost(ctx context.Context) {
	text, err := GetMultiline(a.reader, "Your post", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "reading post text:", err)
		return
	}

	paths, err := GetSimpleText(a.reader, "Image files (space-separated, empty for none)", a.out)
	if err != nil {
		fmt.Fprintln(a.out, "reading image list:", err)
		return
	}

	var images []io.Reader
	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	for _, path := range strings.Fields(paths) {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(a.out, "skipping image:", err)
			continue
		}
		files = append(files, f)
		images = append(images, f)
	}

	post, err := a.feed.CreatePost(ctx, text, images)
	if err != nil {
		// The post may still have been created with a partial set of
		// images; report and move on.
		fmt.Fprintln(a.out, "posting:", err)
	}
	if post.ID != 0 {
		fmt.Fprintf(a.out, "Posted #%d\n", post.ID)
	}
}

func (a *App) like(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: like <post id>")
	if !ok {
		return
	}
	if err := a.feed.ToggleLike(ctx, id); err != nil {
		fmt.Fprintln(a.out, "like failed:", err)
	}
}

func (a *App) comment(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: comment <post id>")
	if !ok {
		return
	}

	text, err := GetSimpleText(a.reader, "Your comment", a.out)
	if err != nil || text == "" {
		return
	}
	if err := a.feed.CreateComment(ctx, id, text); err != nil {
		fmt.Fprintln(a.out, "comment failed:", err)
	}
}

func (a *App) uncomment(ctx context.Context, args []string) {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: uncomment <post id> <comment id>")
		return
	}
	postID, err1 := strconv.Atoi(args[0])
	commentID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		fmt.Fprintln(a.out, "Usage: uncomment <post id> <comment id>")
		return
	}
	if err := a.feed.DeleteComment(ctx, postID, commentID); err != nil {
		fmt.Fprintln(a.out, "delete failed:", err)
	}
}

func (a *App) deletePost(ctx context.Context, args []string) {
	id, ok := a.parseID(args, "Usage: rm <post id>")
	if !ok {
		return
	}
	if err := a.feed.DeletePost(ctx, id); err != nil {
		fmt.Fprintln(a.out, "delete failed:", err)
	}
}

func (a *App) parseID(args []string, usage string) (int, bool) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Fprintln(a.out, usage)
		return 0, false
	}
	return id, true
}
