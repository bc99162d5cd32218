package svg

const interactionCSS = `
    .dot { transition: r 0.2s ease; }
    .glow, .connection { pointer-events: none; }
    .popup { pointer-events: none; transition: opacity 0.15s ease; }
    .popup[visibility="hidden"] { opacity: 0; }
    .popup[visibility="visible"] { opacity: 1; }`

// interactionJS is formatted with the document id.
const interactionJS = `
    (function () {
      const root = document.getElementById('%s');
      if (!root) return;
      const ns = 'http://www.w3.org/2000/svg';
      const links = root.querySelector('.connections');
      const dots = Array.from(root.querySelectorAll('.dot'));
      let hovered = null;
      let lines = [];
      function popupFor(el) {
        return root.querySelector('.popup[data-for="' + el.dataset.popup + '"]');
      }
      function pointer(evt) {
        const pt = root.createSVGPoint();
        pt.x = evt.clientX;
        pt.y = evt.clientY;
        return pt.matrixTransform(root.getScreenCTM().inverse());
      }
      function leave() {
        if (!hovered) return;
        hovered.style.r = hovered.dataset.r + 'px';
        const popup = popupFor(hovered);
        if (popup) popup.setAttribute('visibility', 'hidden');
        lines.forEach(l => l.remove());
        lines = [];
        hovered = null;
      }
      function move(evt) {
        if (!hovered) return;
        const popup = popupFor(hovered);
        if (!popup) return;
        const p = pointer(evt);
        popup.setAttribute('transform', 'translate(' + (p.x + 10).toFixed(1) + ',' + (p.y - 10).toFixed(1) + ')');
        popup.setAttribute('visibility', 'visible');
      }
      dots.forEach(el => {
        el.addEventListener('mouseenter', evt => {
          leave();
          hovered = el;
          el.style.r = (parseFloat(el.dataset.r) * 1.2) + 'px';
          dots.forEach(other => {
            if (other === el) return;
            const l = document.createElementNS(ns, 'line');
            l.setAttribute('x1', el.getAttribute('cx'));
            l.setAttribute('y1', el.getAttribute('cy'));
            l.setAttribute('x2', other.getAttribute('cx'));
            l.setAttribute('y2', other.getAttribute('cy'));
            l.setAttribute('stroke', el.dataset.color);
            l.setAttribute('stroke-width', '1');
            l.setAttribute('stroke-opacity', '0.2');
            l.setAttribute('stroke-dasharray', '4,4');
            l.setAttribute('class', 'connection');
            links.appendChild(l);
            lines.push(l);
          });
          move(evt);
        });
        el.addEventListener('mousemove', move);
        el.addEventListener('mouseleave', leave);
        el.addEventListener('click', () => {
          if (el.dataset.href) window.location.href = el.dataset.href;
        });
      });
    })();`
