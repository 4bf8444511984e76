package router

import "fmt"

// graphiqlPage renders a minimal GraphiQL page pointed at endpoint,
// loading the UI from a CDN rather than vendoring its assets.
func graphiqlPage(title, endpoint string) []byte {
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
  <title>%s</title>
  <style>body { margin: 0; height: 100vh; }</style>
  <link rel="stylesheet" href="https://unpkg.com/graphiql/graphiql.min.css" />
</head>
<body>
  <div id="graphiql" style="height: 100vh;"></div>
  <script crossorigin src="https://unpkg.com/react/umd/react.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/react-dom/umd/react-dom.production.min.js"></script>
  <script crossorigin src="https://unpkg.com/graphiql/graphiql.min.js"></script>
  <script>
    const fetcher = GraphiQL.createFetcher({ url: %q });
    ReactDOM.render(
      React.createElement(GraphiQL, { fetcher }),
      document.getElementById('graphiql'),
    );
  </script>
</body>
</html>`, title, endpoint))
}
