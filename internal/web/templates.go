package web

const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Tasks</title>
<style>
body { font-family: sans-serif; max-width: 40rem; margin: 2rem auto; }
li { display: flex; align-items: center; gap: .5rem; margin: .25rem 0; }
li form { display: inline; }
.completed span { text-decoration: line-through; color: #888; }
.notification { background: #2e7d32; color: #fff; padding: .5rem 1rem; border-radius: 4px; }
</style>
</head>
<body>
<h1>Tasks</h1>
{{if .msg}}<p class="notification">{{.msg}}</p>{{end}}
{{if .editing}}
<form method="post" action="/tasks/{{.editing.ID}}/edit">
  <input name="text" value="{{.editing.Text}}" autofocus>
  <button type="submit">Edit Task</button>
  <a href="/">Cancel</a>
</form>
{{else}}
<form method="post" action="/tasks">
  <input name="text" placeholder="New task" autofocus>
  <button type="submit">Add Task</button>
</form>
{{end}}
<h2>Pending</h2>
<ul id="taskList">
{{range .pending}}
  <li id="{{.ID}}">
    <form method="post" action="/tasks/{{.ID}}/complete"><button type="submit" title="Mark completed">&#9744;</button></form>
    <span>{{.Text}}</span>
    <a href="/?edit={{.ID}}">Edit</a>
    <form method="post" action="/tasks/{{.ID}}/delete"><button type="submit">Delete</button></form>
  </li>
{{else}}
  <li>(none)</li>
{{end}}
</ul>
<h2>Completed</h2>
<ul id="completedTaskList">
{{range .completed}}
  <li id="{{.ID}}" class="completed">
    <span>{{.Text}}</span>
    <form method="post" action="/tasks/{{.ID}}/delete"><button type="submit">Delete</button></form>
  </li>
{{else}}
  <li>(none)</li>
{{end}}
</ul>
</body>
</html>
`
