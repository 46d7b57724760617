package notify

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>{{.Title}}</title>
  <style>
    body { margin: 0; padding: 20px; background: #eef2f0; color: #1c2321;
           font: 14px/1.5 -apple-system, "Segoe UI", Helvetica, Arial, sans-serif; }
    .card { max-width: 620px; margin: 0 auto; background: #fff; border: 1px solid #d5ddd9; border-radius: 6px; }
    .banner { padding: 18px 22px; background: #134e3a; color: #f4fbf7; border-radius: 6px 6px 0 0; }
    .banner h1 { margin: 0; font-size: 20px; }
    .banner p { margin: 4px 0 0; font-size: 14px; color: #c9e8da; }
    .count { display: inline-block; margin-top: 10px; padding: 2px 9px; border-radius: 10px;
             background: #f2b705; color: #1c2321; font-size: 12px; font-weight: 700; }
    .block { padding: 14px 22px; border-top: 1px solid #e6ece9; }
    .block h2 { margin: 0 0 8px; font-size: 16px; }
    table.facts { border-collapse: collapse; width: 100%; }
    table.facts td { padding: 3px 0; vertical-align: top; }
    table.facts td.k { width: 110px; color: #5b6b64; }
    ul.specs { margin: 8px 0 0; padding: 0; }
    .spec-tag { display: inline-block; margin: 0 4px 4px 0; padding: 2px 8px; border: 1px solid #9fd3bc;
                border-radius: 3px; background: #e9f7f0; font-size: 12px; }
    .why { margin-top: 8px; padding: 8px 12px; background: #f6f8f7; border-left: 3px solid #134e3a; font-size: 13px; }
    a.source { display: inline-block; margin-top: 10px; color: #0d5c8c; font-weight: 600; text-decoration: none; }
    .foot { padding: 12px 22px; color: #8a9892; font-size: 12px; text-align: center; }
  </style>
</head>
<body>
  <div class="card">
    <div class="banner">
      <h1>Battery scan {{.Date}}</h1>
      <p>{{.Headline}}</p>
      {{if .Confirmed}}<span class="count">{{len .Confirmed}} to review</span>{{end}}
    </div>

    <div class="block">
      <table class="facts">
        <tr><td class="k">Since</td><td>{{.Cutoff}}</td></tr>
        <tr><td class="k">Feeds</td><td>{{.Feeds}}</td></tr>
        <tr><td class="k">Articles</td><td>{{.Articles}} relevant</td></tr>
        <tr><td class="k">Announced</td><td>{{len .Announcements}}</td></tr>
      </table>
    </div>

    {{range $i, $b := .Confirmed}}
    <div class="block">
      <h2>{{inc $i}}. {{$b.Brand}} {{$b.Model}}</h2>
      {{if $b.PubDate}}<table class="facts"><tr><td class="k">Published</td><td>{{$b.PubDate}}</td></tr></table>{{end}}
      {{if $b.KeySpecs}}
      <ul class="specs">
        {{range $b.KeySpecs}}<li class="spec-tag">{{.}}</li>{{end}}
      </ul>
      {{end}}
      {{if $b.ReasonNew}}<div class="why">{{$b.ReasonNew}}</div>{{end}}
      {{if $b.ArticleURL}}<a class="source" href="{{$b.ArticleURL}}" target="_blank" rel="noopener">Source article</a>{{end}}
    </div>
    {{end}}

    <div class="foot">batterydb scan</div>
  </div>
</body>
</html>`
